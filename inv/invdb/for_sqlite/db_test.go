package for_sqlite

import (
  "github.com/JamesGlub/eden-1/inv/invdb/fixture"
  "github.com/JamesGlub/eden-1/inv/invdb/sqlite_setup"
  "github.com/keep94/appcommon/db/sqlite_db"
  "github.com/keep94/gosqlite/sqlite"
  "testing"
)

func TestSiteById(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).SiteById(t, New(db))
}

func TestListSites(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).ListSites(t, New(db))
}

func TestActiveSitesSkipObsolete(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).ActiveSitesSkipObsolete(t, New(db))
}

func TestUpdateSite(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).UpdateSite(t, New(db))
}

func TestRemoveSite(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).RemoveSite(t, New(db))
}

func TestReqById(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).ReqById(t, New(db))
}

func TestOpenReqs(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).OpenReqs(t, New(db))
}

func TestRecvSites(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).RecvSites(t, New(db))
}

func TestRecvSitesNoPermission(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).RecvSitesNoPermission(t, New(db))
}

func TestRecvSitesRevoked(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).RecvSitesRevoked(t, New(db))
}

func TestRecvSitesUnknownReq(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  newSiteReqFixture(db).RecvSitesUnknownReq(t, New(db))
}

func TestUserCrud(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  fixture.UserFixture{}.UserCrud(t, New(db))
}

func TestLoginUser(t *testing.T) {
  db := openDb(t)
  defer closeDb(t, db)
  fixture.UserFixture{}.LoginUser(t, sqlite_db.NewDoer(db), New(db))
}

func newSiteReqFixture(db *sqlite_db.Db) fixture.SiteReqFixture {
  return fixture.SiteReqFixture{Doer: sqlite_db.NewDoer(db)}
}

func closeDb(t *testing.T, db *sqlite_db.Db) {
  if err := db.Close(); err != nil {
    t.Errorf("Error closing database: %v", err)
  }
}

func openDb(t *testing.T) *sqlite_db.Db {
  conn, err := sqlite.Open(":memory:")
  if err != nil {
    t.Fatalf("Error opening database: %v", err)
  }
  db := sqlite_db.New(conn)
  err = db.Do(func(conn *sqlite.Conn) error {
    return sqlite_setup.SetUpTables(conn)
  })
  if err != nil {
    t.Fatalf("Error creating tables: %v", err)
  }
  return db
}
