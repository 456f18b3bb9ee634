package main

import (
  "flag"
  "fmt"
  "github.com/JamesGlub/eden-1/apps/warehouse/common"
  "github.com/JamesGlub/eden-1/apps/warehouse/login"
  "github.com/JamesGlub/eden-1/apps/warehouse/logout"
  "github.com/JamesGlub/eden-1/apps/warehouse/recv"
  "github.com/JamesGlub/eden-1/apps/warehouse/recvsites"
  "github.com/JamesGlub/eden-1/apps/warehouse/seed"
  "github.com/JamesGlub/eden-1/apps/warehouse/static"
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb/for_sqlite"
  "github.com/JamesGlub/eden-1/inv/invdb/sqlite_setup"
  "github.com/gorilla/context"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/appcommon/db/sqlite_db"
  "github.com/keep94/appcommon/http_util"
  "github.com/keep94/appcommon/logging"
  "github.com/keep94/gosqlite/sqlite"
  "github.com/keep94/ramstore"
  "github.com/keep94/weblogs"
  "net/http"
  "os"
)

const (
  kSessionTimeout = 900
)

var (
  fSSLCrt string
  fSSLKey string
  fPort string
  fDb string
  fIcon string
  fTitle string
  fSeed string
)

var (
  kDoer db.Doer
  kStore for_sqlite.Store
  kReadOnlyStore for_sqlite.ReadOnlyStore
  kSessionStore = ramstore.NewRAMStore(kSessionTimeout)
  kGlobal *common.Global
)

func main() {
  flag.Parse()
  if fDb == "" {
    fmt.Println("Need to specify at least -db flag.")
    flag.Usage()
    return
  }
  setupDb(fDb)
  kGlobal = &common.Global{Title: fTitle, Icon: fIcon != ""}
  mux := http.NewServeMux()
  http.HandleFunc("/", rootRedirect)
  http.Handle("/static/", http.StripPrefix("/static", static.New()))
  if fIcon != "" {
    err := http_util.AddStaticFromFile(
        http.DefaultServeMux, "/images/favicon.ico", fIcon)
    if err != nil {
      fmt.Printf("Icon file not found - %s\n", fIcon)
    }
  }
  http.Handle(
      "/auth/login",
      &login.Handler{
          Doer: kDoer,
          SessionStore: kSessionStore,
          Store: kStore,
          Global: kGlobal})
  http.Handle("/inv/", &authHandler{mux})
  mux.Handle(
      "/inv/recv",
      &recv.Handler{Store: kReadOnlyStore, Global: kGlobal})
  mux.Handle(
      "/inv/req/recv_sites.json",
      &recvsites.Handler{
          Store: kReadOnlyStore,
          GetUser: func(r *http.Request) *inv.User {
            return common.GetUserSession(r).User
          }})
  mux.Handle("/inv/logout", &logout.Handler{})

  defaultHandler := context.ClearHandler(
      weblogs.HandlerWithOptions(
          http.DefaultServeMux,
          &weblogs.Options{Logger: logging.ApacheCommonLoggerWithLatency()}))
  if fSSLCrt != "" && fSSLKey != "" {
    if err := http.ListenAndServeTLS(fPort, fSSLCrt, fSSLKey, defaultHandler); err != nil {
      fmt.Println(err)
    }
    return
  }
  if err := http.ListenAndServe(fPort, defaultHandler); err != nil {
    fmt.Println(err)
  }
}

type authHandler struct {
  *http.ServeMux
}

func (h *authHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
  session, err := common.NewUserSession(kReadOnlyStore, kSessionStore, r)
  if err != nil {
    http_util.ReportError(w, "Error reading database.", err)
    return
  }
  if session.User == nil || !setupStore(session) {
    http_util.Redirect(
        w,
        r,
        http_util.NewUrl("/auth/login", "prev", r.URL.String()).String())
    return
  }
  logging.SetUserName(r, session.User.Name)
  h.ServeMux.ServeHTTP(w, r)
}

func rootRedirect(w http.ResponseWriter, r *http.Request) {
  if r.URL.Path == "/" {
    http_util.Redirect(w, r, "/inv/recv")
  } else {
    http_util.Error(w, http.StatusNotFound)
  }
}

func init() {
  flag.StringVar(&fSSLCrt, "ssl_crt", "", "SSL Certificate file")
  flag.StringVar(&fSSLKey, "ssl_key", "", "SSL Key file")
  flag.StringVar(&fPort, "http", ":8080", "Port to bind")
  flag.StringVar(&fDb, "db", "", "Path to database file")
  flag.StringVar(&fIcon, "icon", "", "Path to icon file")
  flag.StringVar(&fTitle, "title", "Warehouse", "Application title")
  flag.StringVar(&fSeed, "seed", "", "Path to YAML seed file for a new database")
}

func setupDb(filepath string) {
  conn, err := sqlite.Open(filepath)
  if err != nil {
    panic(err.Error())
  }
  dbase := sqlite_db.New(conn)
  err = dbase.Do(func(conn *sqlite.Conn) error {
    return sqlite_setup.SetUpTables(conn)
  })
  if err != nil {
    panic(err.Error())
  }
  kDoer = sqlite_db.NewDoer(dbase)
  kStore = for_sqlite.New(dbase)
  kReadOnlyStore = for_sqlite.ReadOnlyWrapper(kStore)
  if fSeed != "" {
    applySeed(fSeed)
  }
}

func applySeed(filepath string) {
  f, err := os.Open(filepath)
  if err != nil {
    panic(err.Error())
  }
  defer f.Close()
  data, err := seed.Read(f)
  if err != nil {
    panic(err.Error())
  }
  if err := data.Apply(kDoer, kStore); err != nil {
    panic(err.Error())
  }
}

func setupStore(session *common.UserSession) bool {
  switch session.User.Permission {
    case inv.AllPermission:
      session.Store = kStore
      return true
    case inv.ReadPermission:
      session.Store = kReadOnlyStore
      return true
    default:
      return false
  }
}
