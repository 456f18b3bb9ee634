// Package invdb contains the persistence layer for the inv package.
package invdb

import (
  "errors"
  "github.com/JamesGlub/eden-1/inv"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/goconsume"
  "github.com/keep94/gofunctional3/functional"
  "time"
)

const (
  // Largest number of sites ever offered in one selector.
  kMaxRecvSites = 1000
)

var (
  ConcurrentUpdate = errors.New("invdb: Concurrent update.")
  NoSuchId = errors.New("invdb: No Such Id.")
  WrongPassword = errors.New("invdb: Wrong password.")
  NoPermission = errors.New("invdb: Insufficient permission.")
)

type SiteByIdRunner interface {
  // SiteById fetches a site by Id.
  SiteById(t db.Transaction, siteId int64, site *inv.Site) error
}

type SitesRunner interface {
  // Sites fetches all sites sorted by name.
  Sites(t db.Transaction, consumer functional.Consumer) error
}

type ActiveSitesRunner interface {
  // ActiveSites fetches all non obsolete sites sorted by name.
  ActiveSites(t db.Transaction) (sites []*inv.Site, err error)
}

type AddSiteRunner interface {
  // AddSite adds a new site.
  AddSite(t db.Transaction, site *inv.Site) error
}

type UpdateSiteRunner interface {
  // UpdateSite updates a site.
  UpdateSite(t db.Transaction, site *inv.Site) error
}

type RemoveSiteRunner interface {
  // RemoveSite removes a site by id.
  RemoveSite(t db.Transaction, siteId int64) error
}

type ReqByIdRunner interface {
  // ReqById fetches a request by Id.
  ReqById(t db.Transaction, reqId int64, req *inv.Req) error
}

type OpenReqsRunner interface {
  // OpenReqs fetches all open requests from most to least recent.
  OpenReqs(t db.Transaction) (reqs []*inv.Req, err error)
}

type AddReqRunner interface {
  // AddReq adds a new request.
  AddReq(t db.Transaction, req *inv.Req) error
}

type UpdateReqRunner interface {
  // UpdateReq updates a request.
  UpdateReq(t db.Transaction, req *inv.Req) error
}

type RecvSiteIdsRunner interface {
  // RecvSiteIds returns the ids of the sites a user may receive
  // shipments into.
  RecvSiteIds(t db.Transaction, userId int64) (map[int64]bool, error)
}

type GrantRecvRunner interface {
  // GrantRecv lets a user receive shipments into a site.
  GrantRecv(t db.Transaction, userId, siteId int64) error
}

type RevokeRecvRunner interface {
  // RevokeRecv takes away a user's right to receive shipments into a site.
  RevokeRecv(t db.Transaction, userId, siteId int64) error
}

type AddUserRunner interface {
  // AddUser adds a new user.
  AddUser(t db.Transaction, user *inv.User) error
}

type UpdateUserRunner interface {
  // UpdateUser updates a user.
  UpdateUser(t db.Transaction, user *inv.User) error
}

type UserByIdRunner interface {
  // UserById gets a user by id.
  UserById(t db.Transaction, id int64, user *inv.User) error
}

type UserByNameRunner interface {
  // UserByName gets a user by name.
  UserByName(t db.Transaction, name string, user *inv.User) error
}

type UsersRunner interface {
  // Users fetches all users sorted by name.
  Users(t db.Transaction, consumer functional.Consumer) error
}

type RemoveUserByNameRunner interface {
  // RemoveUserByName removes a user by name.
  RemoveUserByName(t db.Transaction, name string) error
}

type UpdateUserByNameRunner interface {
  UserByNameRunner
  UpdateUserRunner
}

type RecvSitesStore interface {
  ReqByIdRunner
  ActiveSitesRunner
  RecvSiteIdsRunner
}

type Store interface {
  SiteByIdRunner
  SitesRunner
  ActiveSitesRunner
  AddSiteRunner
  UpdateSiteRunner
  RemoveSiteRunner
  ReqByIdRunner
  OpenReqsRunner
  AddReqRunner
  UpdateReqRunner
  RecvSiteIdsRunner
  GrantRecvRunner
  RevokeRecvRunner
  AddUserRunner
  UpdateUserRunner
  UserByIdRunner
  UserByNameRunner
  UsersRunner
  RemoveUserByNameRunner
}

// RecvSites computes the candidate source and destination sites for a
// request and stores them at result. The source sites are the active sites
// other than the request's own site; the destination sites are the active
// sites userId may receive into. An unknown reqId or a reqId of zero yields
// two empty lists, not an error. t may be nil.
func RecvSites(
    t db.Transaction,
    store RecvSitesStore,
    reqId int64,
    userId int64,
    result *inv.RecvSites) error {
  *result = inv.RecvSites{}
  if reqId == 0 {
    return nil
  }
  var req inv.Req
  err := store.ReqById(t, reqId, &req)
  if err == NoSuchId {
    return nil
  }
  if err != nil {
    return err
  }
  recvIds, err := store.RecvSiteIds(t, userId)
  if err != nil {
    return err
  }
  var from, to []inv.Site
  fromConsumer := goconsume.Slice(
      goconsume.AppendTo(&from), 0, kMaxRecvSites)
  fromConsumer = goconsume.Filter(
      fromConsumer,
      func(ptr interface{}) bool {
        return ptr.(*inv.Site).Id != req.SiteId
      })
  toConsumer := goconsume.Slice(
      goconsume.AppendTo(&to), 0, kMaxRecvSites)
  toConsumer = goconsume.Filter(
      toConsumer,
      func(ptr interface{}) bool {
        return recvIds[ptr.(*inv.Site).Id]
      })
  sites, err := store.ActiveSites(t)
  if err != nil {
    return err
  }
  for _, site := range sites {
    if fromConsumer.CanConsume() {
      fromConsumer.Consume(site)
    }
    if toConsumer.CanConsume() {
      toConsumer.Consume(site)
    }
  }
  result.From = from
  result.To = to
  return nil
}

// LoginUser logs in a user by userName and password. On success, the user
// is stored at user and its LastLogin field is updated with currentTime.
// LoginUser returns NoSuchId if no such user exists and WrongPassword if
// the password is wrong.
func LoginUser(
    t db.Transaction,
    store UpdateUserByNameRunner,
    userName string,
    password string,
    currentTime time.Time,
    user *inv.User) error {
  if t == nil {
    panic("non nil transaction required.")
  }
  if err := store.UserByName(t, userName, user); err != nil {
    return err
  }
  if !user.Verify(password) {
    return WrongPassword
  }
  if user.Permission == inv.NonePermission {
    return NoSuchId
  }
  newUser := *user
  newUser.LastLogin = currentTime
  if err := store.UpdateUser(t, &newUser); err != nil {
    return err
  }
  return nil
}

// NoPermissionStore implements the write operations of Store by returning
// NoPermission. Embed it to build read-only stores.
type NoPermissionStore struct {
}

func (n NoPermissionStore) AddSite(
    t db.Transaction, site *inv.Site) error {
  return NoPermission
}

func (n NoPermissionStore) UpdateSite(
    t db.Transaction, site *inv.Site) error {
  return NoPermission
}

func (n NoPermissionStore) RemoveSite(
    t db.Transaction, siteId int64) error {
  return NoPermission
}

func (n NoPermissionStore) AddReq(t db.Transaction, req *inv.Req) error {
  return NoPermission
}

func (n NoPermissionStore) UpdateReq(t db.Transaction, req *inv.Req) error {
  return NoPermission
}

func (n NoPermissionStore) GrantRecv(
    t db.Transaction, userId, siteId int64) error {
  return NoPermission
}

func (n NoPermissionStore) RevokeRecv(
    t db.Transaction, userId, siteId int64) error {
  return NoPermission
}

func (n NoPermissionStore) AddUser(t db.Transaction, user *inv.User) error {
  return NoPermission
}

func (n NoPermissionStore) UpdateUser(t db.Transaction, user *inv.User) error {
  return NoPermission
}

func (n NoPermissionStore) RemoveUserByName(
    t db.Transaction, name string) error {
  return NoPermission
}
