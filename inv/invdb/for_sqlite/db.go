// Package for_sqlite stores types in inv package in a sqlite database.
package for_sqlite

import (
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/appcommon/db/sqlite_db"
  "github.com/keep94/appcommon/db/sqlite_rw"
  "github.com/keep94/appcommon/passwords"
  "github.com/keep94/gofunctional3/functional"
  "github.com/keep94/gosqlite/sqlite"
)

const (
    kSQLSiteById = "select id, name, obsolete from sites where id = ?"
    kSQLSites = "select id, name, obsolete from sites order by name"
    kSQLActiveSites = "select id, name, obsolete from sites where obsolete != 1 order by name"
    kSQLInsertSite = "insert into sites (name, obsolete) values (?, ?)"
    kSQLUpdateSite = "update sites set name = ?, obsolete = ? where id = ?"
    kSQLRemoveSite = "delete from sites where id = ?"
    kSQLReqById = "select id, site_id, purpose, open from reqs where id = ?"
    kSQLOpenReqs = "select id, site_id, purpose, open from reqs where open = 1 order by id desc"
    kSQLInsertReq = "insert into reqs (site_id, purpose, open) values (?, ?, ?)"
    kSQLUpdateReq = "update reqs set site_id = ?, purpose = ?, open = ? where id = ?"
    kSQLRecvPermsByUser = "select user_id, site_id from recv_perms where user_id = ?"
    kSQLInsertRecvPerm = "insert into recv_perms (user_id, site_id) values (?, ?)"
    kSQLRemoveRecvPerm = "delete from recv_perms where user_id = ? and site_id = ?"
    kSQLUserById = "select id, name, go_password, permission, last_login from users where id = ?"
    kSQLUsers = "select id, name, go_password, permission, last_login from users order by name"
    kSQLRemoveUserByName = "delete from users where name = ?"
    kSQLUserByName = "select id, name, go_password, permission, last_login from users where name = ?"
    kSQLInsertUser = "insert into users (name, go_password, permission, last_login) values (?, ?, ?, ?)"
    kSQLUpdateUser = "update users set name = ?, go_password = ?, permission = ?, last_login = ? where id = ?"
)

func New(db *sqlite_db.Db) Store {
  return Store{db}
}

func ConnNew(conn *sqlite.Conn) Store {
  return Store{sqlite_db.NewSqliteDoer(conn)}
}

func ReadOnlyWrapper(store Store) ReadOnlyStore {
  return ReadOnlyStore{store: store}
}

// rowStream presents the rows of a sqlite statement as a
// functional.Stream. rowFor wraps the destination pointer in its
// marshalling row.
type rowStream struct {
  stmt *sqlite.Stmt
  rowFor func(ptr interface{}) sqlite_rw.RowForReading
}

func (s rowStream) Next(ptr interface{}) error {
  return sqlite_rw.FirstOnly(s.rowFor(ptr), s.stmt, functional.Done)
}

func (s rowStream) Close() error {
  return nil
}

// readMultiple executes sql and hands the resulting rows to consumer
// as a functional.Stream.
func readMultiple(
    conn *sqlite.Conn,
    consumer functional.Consumer,
    sql string,
    rowFor func(ptr interface{}) sqlite_rw.RowForReading) error {
  stmt, err := conn.Prepare(sql)
  if err != nil {
    return err
  }
  defer stmt.Finalize()
  return consumer.Consume(rowStream{stmt, rowFor})
}

func siteById(conn *sqlite.Conn, siteId int64, site *inv.Site) error {
  return sqlite_rw.ReadSingle(
      conn,
      (&rawSite{}).init(site),
      invdb.NoSuchId,
      kSQLSiteById,
      siteId)
}

func activeSites(conn *sqlite.Conn) (sites []*inv.Site, err error) {
  stmt, err := conn.Prepare(kSQLActiveSites)
  if err != nil {
    return
  }
  defer stmt.Finalize()
  s := rowStream{stmt, func(ptr interface{}) sqlite_rw.RowForReading {
      return (&rawSite{}).init(ptr.(*inv.Site))
  }}
  for {
    p := &inv.Site{}
    err = s.Next(p)
    if err == functional.Done {
      err = nil
      return
    }
    if err != nil {
      return
    }
    sites = append(sites, p)
  }
  return
}

func openReqs(conn *sqlite.Conn) (reqs []*inv.Req, err error) {
  stmt, err := conn.Prepare(kSQLOpenReqs)
  if err != nil {
    return
  }
  defer stmt.Finalize()
  s := rowStream{stmt, func(ptr interface{}) sqlite_rw.RowForReading {
      return (&rawReq{}).init(ptr.(*inv.Req))
  }}
  for {
    p := &inv.Req{}
    err = s.Next(p)
    if err == functional.Done {
      err = nil
      return
    }
    if err != nil {
      return
    }
    reqs = append(reqs, p)
  }
  return
}

func recvSiteIds(conn *sqlite.Conn, userId int64) (map[int64]bool, error) {
  stmt, err := conn.Prepare(kSQLRecvPermsByUser)
  if err != nil {
    return nil, err
  }
  defer stmt.Finalize()
  if err = stmt.Exec(userId); err != nil {
    return nil, err
  }
  result := make(map[int64]bool)
  s := rowStream{stmt, func(ptr interface{}) sqlite_rw.RowForReading {
      return (&rawRecvPerm{}).init(ptr.(*recvPerm))
  }}
  for {
    var p recvPerm
    err = s.Next(&p)
    if err == functional.Done {
      return result, nil
    }
    if err != nil {
      return nil, err
    }
    result[p.SiteId] = true
  }
  return result, nil
}

type rawSite struct {
  *inv.Site
}

func (r *rawSite) Ptrs() []interface{} {
  return []interface{} {&r.Id, &r.Name, &r.Obsolete}
}

func (r *rawSite) Values() []interface{} {
  return []interface{} {r.Name, r.Obsolete, r.Id}
}

func (r *rawSite) init(bo *inv.Site) *rawSite {
  r.Site = bo
  return r
}

func (r *rawSite) ValuePtr() interface{} {
  return r.Site
}

func (r *rawSite) Unmarshall() error {
  return nil
}

func (r *rawSite) Marshall() error {
  return nil
}

type rawReq struct {
  *inv.Req
}

func (r *rawReq) Ptrs() []interface{} {
  return []interface{} {&r.Id, &r.SiteId, &r.Purpose, &r.Open}
}

func (r *rawReq) Values() []interface{} {
  return []interface{} {r.SiteId, r.Purpose, r.Open, r.Id}
}

func (r *rawReq) init(bo *inv.Req) *rawReq {
  r.Req = bo
  return r
}

func (r *rawReq) ValuePtr() interface{} {
  return r.Req
}

func (r *rawReq) Unmarshall() error {
  return nil
}

func (r *rawReq) Marshall() error {
  return nil
}

type recvPerm struct {
  UserId int64
  SiteId int64
}

type rawRecvPerm struct {
  *recvPerm
}

func (r *rawRecvPerm) Ptrs() []interface{} {
  return []interface{} {&r.UserId, &r.SiteId}
}

func (r *rawRecvPerm) Values() []interface{} {
  return []interface{} {r.UserId, r.SiteId}
}

func (r *rawRecvPerm) init(bo *recvPerm) *rawRecvPerm {
  r.recvPerm = bo
  return r
}

func (r *rawRecvPerm) ValuePtr() interface{} {
  return r.recvPerm
}

func (r *rawRecvPerm) Unmarshall() error {
  return nil
}

func (r *rawRecvPerm) Marshall() error {
  return nil
}

type rawUser struct {
  *inv.User
  rawPassword string
  rawPermission int
  rawLastLogin string
}

func (r *rawUser) Ptrs() []interface{} {
  return []interface{} {&r.Id, &r.Name, &r.rawPassword, &r.rawPermission, &r.rawLastLogin}
}

func (r *rawUser) Values() []interface{} {
  return []interface{} {r.Name, r.rawPassword, r.rawPermission, r.rawLastLogin, r.Id}
}

func (r *rawUser) init(bo *inv.User) *rawUser {
  r.User = bo
  return r
}

func (r *rawUser) ValuePtr() interface{} {
  return r.User
}

func (r *rawUser) Unmarshall() error {
  r.Password = passwords.Password(r.rawPassword)
  // Defaults to inv.NonePermission if the raw permission is not recognized
  r.Permission, _ = inv.ToPermission(r.rawPermission)
  r.LastLogin, _ = sqlite_db.StringToDate(r.rawLastLogin)
  return nil
}

func (r *rawUser) Marshall() error {
  r.rawPassword = string(r.Password)
  r.rawPermission = r.Permission.ToInt()
  r.rawLastLogin = sqlite_db.DateToString(r.LastLogin)
  return nil
}

type Store struct {
  db sqlite_db.Doer
}

func (s Store) SiteById(
    t db.Transaction, siteId int64, site *inv.Site) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return siteById(conn, siteId, site)
  })
}

func (s Store) Sites(
    t db.Transaction, consumer functional.Consumer) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return readMultiple(
        conn, consumer, kSQLSites,
        func(ptr interface{}) sqlite_rw.RowForReading {
          return (&rawSite{}).init(ptr.(*inv.Site))
        })
  })
}

func (s Store) ActiveSites(t db.Transaction) (
    sites []*inv.Site, err error) {
  err = sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) (err error) {
    sites, err = activeSites(conn)
    return
  })
  return
}

func (s Store) AddSite(t db.Transaction, site *inv.Site) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_rw.AddRow(
        conn, (&rawSite{}).init(site), &site.Id, kSQLInsertSite)
  })
}

func (s Store) UpdateSite(t db.Transaction, site *inv.Site) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_rw.UpdateRow(conn, (&rawSite{}).init(site), kSQLUpdateSite)
  })
}

func (s Store) RemoveSite(t db.Transaction, siteId int64) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return conn.Exec(kSQLRemoveSite, siteId)
  })
}

func (s Store) ReqById(
    t db.Transaction, reqId int64, req *inv.Req) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_rw.ReadSingle(
        conn, (&rawReq{}).init(req), invdb.NoSuchId, kSQLReqById, reqId)
  })
}

func (s Store) OpenReqs(t db.Transaction) (reqs []*inv.Req, err error) {
  err = sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) (err error) {
    reqs, err = openReqs(conn)
    return
  })
  return
}

func (s Store) AddReq(t db.Transaction, req *inv.Req) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_rw.AddRow(
        conn, (&rawReq{}).init(req), &req.Id, kSQLInsertReq)
  })
}

func (s Store) UpdateReq(t db.Transaction, req *inv.Req) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_rw.UpdateRow(conn, (&rawReq{}).init(req), kSQLUpdateReq)
  })
}

func (s Store) RecvSiteIds(t db.Transaction, userId int64) (
    siteIds map[int64]bool, err error) {
  err = sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) (err error) {
    siteIds, err = recvSiteIds(conn, userId)
    return
  })
  return
}

func (s Store) GrantRecv(t db.Transaction, userId, siteId int64) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return conn.Exec(kSQLInsertRecvPerm, userId, siteId)
  })
}

func (s Store) RevokeRecv(t db.Transaction, userId, siteId int64) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return conn.Exec(kSQLRemoveRecvPerm, userId, siteId)
  })
}

func (s Store) AddUser(t db.Transaction, user *inv.User) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_db.AddRow(conn, &rawUser{}, user, &user.Id, kSQLInsertUser)
  })
}

func (s Store) RemoveUserByName(t db.Transaction, name string) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return conn.Exec(kSQLRemoveUserByName, name)
  })
}

func (s Store) UpdateUser(t db.Transaction, user *inv.User) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_db.UpdateRow(conn, &rawUser{}, user, kSQLUpdateUser)
  })
}

func (s Store) UserById(
    t db.Transaction, id int64, user *inv.User) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_db.ReadSingle(
        conn, &rawUser{}, invdb.NoSuchId, user, kSQLUserById, id)
  })
}

func (s Store) UserByName(
    t db.Transaction, name string, user *inv.User) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_db.ReadSingle(
        conn, &rawUser{}, invdb.NoSuchId, user, kSQLUserByName, name)
  })
}

func (s Store) Users(
    t db.Transaction, consumer functional.Consumer) error {
  return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
    return sqlite_db.ReadMultiple(
        conn, &rawUser{}, consumer, kSQLUsers)
  })
}

type ReadOnlyStore struct {
  invdb.NoPermissionStore
  store Store
}

func (s ReadOnlyStore) SiteById(
    t db.Transaction, siteId int64, site *inv.Site) error {
  return s.store.SiteById(t, siteId, site)
}

func (s ReadOnlyStore) Sites(
    t db.Transaction, consumer functional.Consumer) error {
  return s.store.Sites(t, consumer)
}

func (s ReadOnlyStore) ActiveSites(t db.Transaction) (
    sites []*inv.Site, err error) {
  return s.store.ActiveSites(t)
}

func (s ReadOnlyStore) ReqById(
    t db.Transaction, reqId int64, req *inv.Req) error {
  return s.store.ReqById(t, reqId, req)
}

func (s ReadOnlyStore) OpenReqs(t db.Transaction) (
    reqs []*inv.Req, err error) {
  return s.store.OpenReqs(t)
}

func (s ReadOnlyStore) RecvSiteIds(t db.Transaction, userId int64) (
    siteIds map[int64]bool, err error) {
  return s.store.RecvSiteIds(t, userId)
}

func (s ReadOnlyStore) UserById(
    t db.Transaction, id int64, user *inv.User) error {
  return s.store.UserById(t, id, user)
}

func (s ReadOnlyStore) UserByName(
    t db.Transaction, name string, user *inv.User) error {
  return s.store.UserByName(t, name, user)
}

func (s ReadOnlyStore) Users(
    t db.Transaction, consumer functional.Consumer) error {
  return s.store.Users(t, consumer)
}
