// Package sqlite_setup sets up a sqlite database for the warehouse app.
package sqlite_setup

import (
  "github.com/keep94/gosqlite/sqlite"
)

// SetUpTables creates all needed tables in database.
func SetUpTables(conn *sqlite.Conn) error {
  err := conn.Exec("create table if not exists sites (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, obsolete INTEGER)")
  if err != nil {
    return err
  }
  err = conn.Exec("create index if not exists sites_name_idx on sites (name)")
  if err != nil {
    return err
  }
  err = conn.Exec("create table if not exists reqs (id INTEGER PRIMARY KEY AUTOINCREMENT, site_id INTEGER, purpose TEXT, open INTEGER)")
  if err != nil {
    return err
  }
  err = conn.Exec("create table if not exists recv_perms (user_id INTEGER, site_id INTEGER)")
  if err != nil {
    return err
  }
  err = conn.Exec("create unique index if not exists recv_perms_user_id_site_id_idx on recv_perms (user_id, site_id)")
  if err != nil {
    return err
  }
  err = conn.Exec("create table if not exists users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, go_password TEXT, permission INTEGER, last_login TEXT)")
  if err != nil {
    return err
  }
  err = conn.Exec("create unique index if not exists users_name_idx on users (name)")
  if err != nil {
    return err
  }
  return nil
}
