package main

import (
  "flag"
  "fmt"
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/JamesGlub/eden-1/inv/invdb/for_sqlite"
  "github.com/JamesGlub/eden-1/inv/invdb/sqlite_setup"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/appcommon/db/sqlite_db"
  "github.com/keep94/appcommon/passwords"
  "github.com/keep94/gofunctional3/consume"
  "github.com/keep94/gosqlite/sqlite"
  "os"
  "strings"
)

const (
  kDbFlag = "db"
  kNameFlag = "name"
  kPermFlag = "perm"
  kSiteFlag = "site"
)

func main() {
  if len(os.Args) == 1 {
    fmt.Println("usage: warehouseuser <command> [<args>]")
    fmt.Println("  list   list the users")
    fmt.Println("  add    add a user")
    fmt.Println("  remove remove user")
    fmt.Println("  update update user")
    fmt.Println("  grant  let a user receive shipments into a site")
    fmt.Println("  revoke take away a user's right to receive into a site")
    return
  }
  switch os.Args[1] {
    case "list":
      if !doList(os.Args[2:]) {
        os.Exit(1)
      }
    case "add":
      if !doAdd(os.Args[2:]) {
        os.Exit(1)
      }
    case "remove":
      if !doRemove(os.Args[2:]) {
        os.Exit(1)
      }
    case "update":
      if !doUpdate(os.Args[2:]) {
        os.Exit(1)
      }
    case "grant":
      if !doGrant(os.Args[2:], grant) {
        os.Exit(1)
      }
    case "revoke":
      if !doGrant(os.Args[2:], revoke) {
        os.Exit(1)
      }
    default:
      fmt.Printf("%q is not a valid command.\n", os.Args[1])
      os.Exit(2)
  }
}

func checkStrFlag(f *flag.FlagSet, flagName, flagValue string) {
  if flagValue == "" {
    fmt.Fprintf(f.Output(), "Need to specify -%s flag.\n", flagName)
    os.Exit(2)
  }
}

func checkDbAndName(f *flag.FlagSet, db, name string) {
  checkStrFlag(f, kDbFlag, db)
  checkStrFlag(f, kNameFlag, name)
}

func checkPermission(f *flag.FlagSet, p string) inv.Permission {
  result, ok := getPermission(p)
  if !ok {
    fmt.Fprintf(f.Output(), "Need to specify read, all, or none for the -%s flag.\n", kPermFlag)
    os.Exit(2)
  }
  return result
}

func addDbFlag(f *flag.FlagSet) *string {
  return f.String(kDbFlag, "", "Path to database file")
}

func addNameFlag(f *flag.FlagSet) *string {
  return f.String(kNameFlag, "", "User name")
}

func addPasswordFlag(f *flag.FlagSet, defaultValue string) *string {
  return f.String("password", defaultValue, "User password")
}

func addPermFlag(f *flag.FlagSet, defaultValue string) *string {
  return f.String(kPermFlag, defaultValue, "User permission: read | all | none")
}

func addSiteFlag(f *flag.FlagSet) *int64 {
  return f.Int64(kSiteFlag, 0, "Site id")
}

func doList(args []string) bool {
  flags := flag.NewFlagSet("list", flag.ExitOnError)
  dbPath := addDbFlag(flags)
  flags.Parse(args)
  checkStrFlag(flags, kDbFlag, *dbPath)
  dbase := openDb(*dbPath)
  defer dbase.Close()
  store, _, ok := initDb(dbase)
  if !ok {
    return false
  }
  return listUsers(store)
}

func doAdd(args []string) bool {
  flags := flag.NewFlagSet("add", flag.ExitOnError)
  dbPath := addDbFlag(flags)
  name := addNameFlag(flags)
  password := addPasswordFlag(flags, "password")
  permission := addPermFlag(flags, "read")
  flags.Parse(args)
  checkDbAndName(flags, *dbPath, *name)
  perm := checkPermission(flags, *permission)

  dbase := openDb(*dbPath)
  defer dbase.Close()
  store, _, ok := initDb(dbase)
  if !ok {
    return false
  }
  user := inv.User{
      Name: *name,
      Password: passwords.New(*password),
      Permission: perm}
  if err := store.AddUser(nil, &user); err != nil {
    fmt.Printf("An error happened adding user - %v\n", err)
    return false
  }
  return true
}

func doUpdate(args []string) bool {
  flags := flag.NewFlagSet("update", flag.ExitOnError)
  dbPath := addDbFlag(flags)
  name := addNameFlag(flags)
  password := addPasswordFlag(flags, "")
  permission := addPermFlag(flags, "")
  flags.Parse(args)
  checkDbAndName(flags, *dbPath, *name)
  perm := inv.NonePermission
  if *permission != "" {
    perm = checkPermission(flags, *permission)
  }
  dbase := openDb(*dbPath)
  defer dbase.Close()
  store, doer, ok := initDb(dbase)
  if !ok {
    return false
  }
  err := doer.Do(func(t db.Transaction) (err error) {
      var user inv.User
      if err = store.UserByName(t, *name, &user); err != nil {
        return
      }
      if *password != "" {
        user.Password = passwords.New(*password)
      }
      if *permission != "" {
        user.Permission = perm
      }
      return store.UpdateUser(t, &user)
  })
  if err == invdb.NoSuchId {
    fmt.Printf("No such user - %s\n", *name)
    return false
  } else if err != nil {
    fmt.Printf("An error happened updating user - %v\n", err)
    return false
  }
  return true
}

func doRemove(args []string) bool {
  flags := flag.NewFlagSet("remove", flag.ExitOnError)
  dbPath := addDbFlag(flags)
  name := addNameFlag(flags)
  flags.Parse(args)
  checkDbAndName(flags, *dbPath, *name)
  dbase := openDb(*dbPath)
  defer dbase.Close()
  store, _, ok := initDb(dbase)
  if !ok {
    return false
  }
  if err := store.RemoveUserByName(nil, *name); err != nil {
    fmt.Printf("An error happened removing user - %v\n", err)
    return false
  }
  return true
}

func doGrant(args []string, change grantChanger) bool {
  flags := flag.NewFlagSet("grant", flag.ExitOnError)
  dbPath := addDbFlag(flags)
  name := addNameFlag(flags)
  siteId := addSiteFlag(flags)
  flags.Parse(args)
  checkDbAndName(flags, *dbPath, *name)
  if *siteId == 0 {
    fmt.Fprintf(flags.Output(), "Need to specify -%s flag.\n", kSiteFlag)
    os.Exit(2)
  }
  dbase := openDb(*dbPath)
  defer dbase.Close()
  store, doer, ok := initDb(dbase)
  if !ok {
    return false
  }
  err := doer.Do(func(t db.Transaction) error {
      var user inv.User
      if err := store.UserByName(t, *name, &user); err != nil {
        return err
      }
      var site inv.Site
      if err := store.SiteById(t, *siteId, &site); err != nil {
        return err
      }
      return change(store, t, user.Id, site.Id)
  })
  if err == invdb.NoSuchId {
    fmt.Printf("No such user or site\n")
    return false
  } else if err != nil {
    fmt.Printf("An error happened changing permissions - %v\n", err)
    return false
  }
  return true
}

type grantChanger func(
    store for_sqlite.Store, t db.Transaction, userId, siteId int64) error

func grant(
    store for_sqlite.Store, t db.Transaction, userId, siteId int64) error {
  return store.GrantRecv(t, userId, siteId)
}

func revoke(
    store for_sqlite.Store, t db.Transaction, userId, siteId int64) error {
  return store.RevokeRecv(t, userId, siteId)
}

func openDb(dbPath string) *sqlite_db.Db {
  conn, err := sqlite.Open(dbPath)
  if err != nil {
    fmt.Printf("Unable to open database - %s\n", dbPath)
    os.Exit(1)
  }
  return sqlite_db.New(conn)
}

func initDb(dbase *sqlite_db.Db) (
    store for_sqlite.Store, doer db.Doer, ok bool) {
  err := dbase.Do(func(conn *sqlite.Conn) error {
    return sqlite_setup.SetUpTables(conn)
  })
  if err != nil {
    fmt.Printf("Unable to create tables - %v\n", err)
    return
  }
  return for_sqlite.New(dbase), sqlite_db.NewDoer(dbase), true
}

func getPermission(perm string) (inv.Permission, bool) {
  permStr := strings.ToLower(perm)
  switch permStr {
  case "read":
    return inv.ReadPermission, true
  case "all":
    return inv.AllPermission, true
  case "none":
    return inv.NonePermission, true
  default:
    return inv.NonePermission, false
  }
}

func listUsers(store invdb.UsersRunner) bool {
  var users []*inv.User
  err := store.Users(nil, consume.AppendPtrsTo(&users, nil))
  if err != nil {
    fmt.Printf("An error happened listing users - %v\n", err)
    return false
  }
  for _, u := range users {
    lastLoginStr := "--"
    if !u.LastLogin.IsZero() {
      lastLoginStr = u.LastLogin.Format("Mon 01/02/2006")
    }
    fmt.Printf(
        "%-12s %-20s %s\n",
        u.Name,
        lastLoginStr,
        u.Permission)
  }
  return true
}
