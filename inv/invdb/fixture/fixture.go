// Package fixture provides test suites to test implementations of the
// interfaces in the invdb package.
package fixture

import (
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/keep94/appcommon/date_util"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/appcommon/passwords"
  "github.com/keep94/gofunctional3/consume"
  "reflect"
  "testing"
)

var (
  kLoginTime = date_util.YMD(2021, 3, 15)
)

// SiteReqFixture tests implementations of the interfaces in the invdb
// package that access sites, requests, and receive permissions. Each
// exported method is one test.
type SiteReqFixture struct {
  Doer db.Doer
}

type MinimalStore interface {
  invdb.AddSiteRunner
  invdb.AddReqRunner
  invdb.GrantRecvRunner
}

type SiteByIdStore interface {
  MinimalStore
  invdb.SiteByIdRunner
}

type SitesStore interface {
  MinimalStore
  invdb.SitesRunner
  invdb.ActiveSitesRunner
  invdb.UpdateSiteRunner
  invdb.RemoveSiteRunner
}

type ReqStore interface {
  MinimalStore
  invdb.ReqByIdRunner
  invdb.OpenReqsRunner
  invdb.UpdateReqRunner
}

type RecvSitesStore interface {
  MinimalStore
  invdb.RecvSitesStore
  invdb.RevokeRecvRunner
}

func (f SiteReqFixture) SiteById(t *testing.T, store SiteByIdStore) {
  sites := f.createSites(t, store)
  var site inv.Site
  if err := store.SiteById(nil, sites[1].Id, &site); err != nil {
    t.Fatalf("Got error reading site: %v", err)
  }
  if !reflect.DeepEqual(*sites[1], site) {
    t.Errorf("Expected %v, got %v", *sites[1], site)
  }
  if err := store.SiteById(nil, 9999, &site); err != invdb.NoSuchId {
    t.Errorf("Expected NoSuchId, got %v", err)
  }
}

func (f SiteReqFixture) ListSites(t *testing.T, store SitesStore) {
  f.createSites(t, store)
  var sites []inv.Site
  if err := store.Sites(nil, consume.AppendTo(&sites)); err != nil {
    t.Fatalf("Got error reading sites: %v", err)
  }
  names := make([]string, len(sites))
  for i := range sites {
    names[i] = sites[i].Name
  }
  expected := []string{
      "Closed Depot", "Field Hospital", "Main Warehouse", "Port Facility"}
  if !reflect.DeepEqual(expected, names) {
    t.Errorf("Expected %v, got %v", expected, names)
  }
}

func (f SiteReqFixture) ActiveSitesSkipObsolete(
    t *testing.T, store SitesStore) {
  f.createSites(t, store)
  sites, err := store.ActiveSites(nil)
  if err != nil {
    t.Fatalf("Got error reading sites: %v", err)
  }
  if len(sites) != 3 {
    t.Fatalf("Expected 3 active sites, got %v", len(sites))
  }
  for _, site := range sites {
    if site.Obsolete {
      t.Errorf("Got obsolete site %v in active sites", site.Name)
    }
  }
}

func (f SiteReqFixture) UpdateSite(t *testing.T, store SitesStore) {
  sites := f.createSites(t, store)
  site := *sites[0]
  site.Name = "Relief Hospital"
  site.Obsolete = true
  if err := store.UpdateSite(nil, &site); err != nil {
    t.Fatalf("Got error updating site: %v", err)
  }
  active, err := store.ActiveSites(nil)
  if err != nil {
    t.Fatalf("Got error reading sites: %v", err)
  }
  for _, p := range active {
    if p.Id == site.Id {
      t.Errorf("Expected site %v to be obsolete", p.Name)
    }
  }
}

func (f SiteReqFixture) RemoveSite(t *testing.T, store SitesStore) {
  sites := f.createSites(t, store)
  if err := store.RemoveSite(nil, sites[0].Id); err != nil {
    t.Fatalf("Got error removing site: %v", err)
  }
  var listed []inv.Site
  if err := store.Sites(nil, consume.AppendTo(&listed)); err != nil {
    t.Fatalf("Got error reading sites: %v", err)
  }
  if len(listed) != 3 {
    t.Errorf("Expected 3 sites, got %v", len(listed))
  }
}

func (f SiteReqFixture) ReqById(t *testing.T, store ReqStore) {
  _, reqs := f.createSitesAndReqs(t, store)
  var req inv.Req
  if err := store.ReqById(nil, reqs[0].Id, &req); err != nil {
    t.Fatalf("Got error reading req: %v", err)
  }
  if !reflect.DeepEqual(*reqs[0], req) {
    t.Errorf("Expected %v, got %v", *reqs[0], req)
  }
  if err := store.ReqById(nil, 9999, &req); err != invdb.NoSuchId {
    t.Errorf("Expected NoSuchId, got %v", err)
  }
}

func (f SiteReqFixture) OpenReqs(t *testing.T, store ReqStore) {
  _, reqs := f.createSitesAndReqs(t, store)
  closed := *reqs[1]
  closed.Open = false
  if err := store.UpdateReq(nil, &closed); err != nil {
    t.Fatalf("Got error updating req: %v", err)
  }
  open, err := store.OpenReqs(nil)
  if err != nil {
    t.Fatalf("Got error reading reqs: %v", err)
  }
  if len(open) != 1 {
    t.Fatalf("Expected 1 open req, got %v", len(open))
  }
  if open[0].Id != reqs[0].Id {
    t.Errorf("Expected req %v, got %v", reqs[0].Id, open[0].Id)
  }
}

func (f SiteReqFixture) RecvSites(t *testing.T, store RecvSitesStore) {
  sites, reqs := f.createSitesAndReqs(t, store)
  // User 25 may receive at the requesting site and at the port.
  if err := store.GrantRecv(nil, 25, sites[0].Id); err != nil {
    t.Fatalf("Got error granting: %v", err)
  }
  if err := store.GrantRecv(nil, 25, sites[3].Id); err != nil {
    t.Fatalf("Got error granting: %v", err)
  }
  var result inv.RecvSites
  err := f.Doer.Do(func(tx db.Transaction) error {
    return invdb.RecvSites(tx, store, reqs[0].Id, 25, &result)
  })
  if err != nil {
    t.Fatalf("Got error computing recv sites: %v", err)
  }
  // reqs[0] belongs to sites[0]; from skips it, to holds the grants.
  fromNames := siteNames(result.From)
  if !reflect.DeepEqual(
      []string{"Main Warehouse", "Port Facility"}, fromNames) {
    t.Errorf("Got from sites %v", fromNames)
  }
  toNames := siteNames(result.To)
  if !reflect.DeepEqual(
      []string{"Field Hospital", "Port Facility"}, toNames) {
    t.Errorf("Got to sites %v", toNames)
  }
}

func (f SiteReqFixture) RecvSitesNoPermission(
    t *testing.T, store RecvSitesStore) {
  _, reqs := f.createSitesAndReqs(t, store)
  var result inv.RecvSites
  if err := invdb.RecvSites(
      nil, store, reqs[0].Id, 25, &result); err != nil {
    t.Fatalf("Got error computing recv sites: %v", err)
  }
  if len(result.From) == 0 {
    t.Error("Expected from sites")
  }
  if len(result.To) != 0 {
    t.Errorf("Expected no to sites, got %v", siteNames(result.To))
  }
}

func (f SiteReqFixture) RecvSitesRevoked(
    t *testing.T, store RecvSitesStore) {
  sites, reqs := f.createSitesAndReqs(t, store)
  if err := store.GrantRecv(nil, 25, sites[0].Id); err != nil {
    t.Fatalf("Got error granting: %v", err)
  }
  if err := store.RevokeRecv(nil, 25, sites[0].Id); err != nil {
    t.Fatalf("Got error revoking: %v", err)
  }
  var result inv.RecvSites
  if err := invdb.RecvSites(
      nil, store, reqs[0].Id, 25, &result); err != nil {
    t.Fatalf("Got error computing recv sites: %v", err)
  }
  if len(result.To) != 0 {
    t.Errorf("Expected no to sites, got %v", siteNames(result.To))
  }
}

func (f SiteReqFixture) RecvSitesUnknownReq(
    t *testing.T, store RecvSitesStore) {
  f.createSitesAndReqs(t, store)
  result := inv.RecvSites{
      From: inv.SiteList{{Id: 9, Name: "Stale"}},
      To: inv.SiteList{{Id: 10, Name: "Stale"}}}
  if err := invdb.RecvSites(nil, store, 9999, 25, &result); err != nil {
    t.Fatalf("Got error computing recv sites: %v", err)
  }
  if len(result.From) != 0 || len(result.To) != 0 {
    t.Errorf("Expected empty lists, got %v", result)
  }
  if err := invdb.RecvSites(nil, store, 0, 25, &result); err != nil {
    t.Fatalf("Got error computing recv sites: %v", err)
  }
  if len(result.From) != 0 || len(result.To) != 0 {
    t.Errorf("Expected empty lists, got %v", result)
  }
}

func (f SiteReqFixture) createSites(
    t *testing.T, store MinimalStore) []*inv.Site {
  sites := []*inv.Site{
      {Name: "Field Hospital"},
      {Name: "Main Warehouse"},
      {Name: "Port Facility"},
      {Name: "Closed Depot", Obsolete: true},
  }
  for _, site := range sites {
    if err := store.AddSite(nil, site); err != nil {
      t.Fatalf("Got error adding site: %v", err)
    }
    if site.Id == 0 {
      t.Fatal("Expected AddSite to assign an Id")
    }
  }
  return sites
}

func (f SiteReqFixture) createSitesAndReqs(
    t *testing.T, store MinimalStore) ([]*inv.Site, []*inv.Req) {
  sites := f.createSites(t, store)
  reqs := []*inv.Req{
      {SiteId: sites[0].Id, Purpose: "Medical supplies", Open: true},
      {SiteId: sites[1].Id, Purpose: "Blankets", Open: true},
  }
  for _, req := range reqs {
    if err := store.AddReq(nil, req); err != nil {
      t.Fatalf("Got error adding req: %v", err)
    }
  }
  return sites, reqs
}

func siteNames(sites inv.SiteList) []string {
  names := make([]string, len(sites))
  for i := range sites {
    names[i] = sites[i].Name
  }
  return names
}

// UserFixture tests implementations of the user interfaces in the invdb
// package.
type UserFixture struct {
}

type UserStore interface {
  invdb.AddUserRunner
  invdb.UserByIdRunner
  invdb.UserByNameRunner
  invdb.UpdateUserRunner
  invdb.RemoveUserByNameRunner
}

func (f UserFixture) UserCrud(t *testing.T, store UserStore) {
  user := inv.User{
      Name: "ops",
      Password: passwords.New("secret"),
      Permission: inv.AllPermission,
      LastLogin: kLoginTime}
  if err := store.AddUser(nil, &user); err != nil {
    t.Fatalf("Got error adding user: %v", err)
  }
  var fetched inv.User
  if err := store.UserById(nil, user.Id, &fetched); err != nil {
    t.Fatalf("Got error reading user: %v", err)
  }
  if !reflect.DeepEqual(user, fetched) {
    t.Errorf("Expected %v, got %v", user, fetched)
  }
  if err := store.UserByName(nil, "ops", &fetched); err != nil {
    t.Fatalf("Got error reading user: %v", err)
  }
  if fetched.Id != user.Id {
    t.Errorf("Expected %v, got %v", user.Id, fetched.Id)
  }
  fetched.Permission = inv.ReadPermission
  if err := store.UpdateUser(nil, &fetched); err != nil {
    t.Fatalf("Got error updating user: %v", err)
  }
  if err := store.UserById(nil, user.Id, &fetched); err != nil {
    t.Fatalf("Got error reading user: %v", err)
  }
  if fetched.Permission != inv.ReadPermission {
    t.Errorf("Expected ReadPermission, got %v", fetched.Permission)
  }
  if err := store.RemoveUserByName(nil, "ops"); err != nil {
    t.Fatalf("Got error removing user: %v", err)
  }
  if err := store.UserById(nil, user.Id, &fetched); err != invdb.NoSuchId {
    t.Errorf("Expected NoSuchId, got %v", err)
  }
}

type LoginStore interface {
  invdb.AddUserRunner
  invdb.UserByIdRunner
  invdb.UpdateUserByNameRunner
}

func (f UserFixture) LoginUser(
    t *testing.T, doer db.Doer, store LoginStore) {
  user := inv.User{
      Name: "ops",
      Password: passwords.New("secret"),
      Permission: inv.AllPermission}
  if err := store.AddUser(nil, &user); err != nil {
    t.Fatalf("Got error adding user: %v", err)
  }
  var loggedIn inv.User
  err := doer.Do(func(t db.Transaction) error {
    return invdb.LoginUser(t, store, "ops", "wrong", kLoginTime, &loggedIn)
  })
  if err != invdb.WrongPassword {
    t.Errorf("Expected WrongPassword, got %v", err)
  }
  err = doer.Do(func(t db.Transaction) error {
    return invdb.LoginUser(t, store, "nobody", "secret", kLoginTime, &loggedIn)
  })
  if err != invdb.NoSuchId {
    t.Errorf("Expected NoSuchId, got %v", err)
  }
  err = doer.Do(func(t db.Transaction) error {
    return invdb.LoginUser(t, store, "ops", "secret", kLoginTime, &loggedIn)
  })
  if err != nil {
    t.Fatalf("Got error logging in: %v", err)
  }
  var fetched inv.User
  if err := store.UserById(nil, user.Id, &fetched); err != nil {
    t.Fatalf("Got error reading user: %v", err)
  }
  if fetched.LastLogin != kLoginTime {
    t.Errorf("Expected %v, got %v", kLoginTime, fetched.LastLogin)
  }
}
