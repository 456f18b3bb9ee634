// Package common provides routines common to all handlers in the warehouse
// webapp.
package common

import (
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/gorilla/sessions"
  "github.com/keep94/appcommon/http_util"
  "github.com/keep94/appcommon/session_util"
  "html/template"
  "net/http"
)

const (
  kSessionCookieName = "session-cookie"
)

// Global holds page attributes common to the whole app.
type Global struct {
  Title string
  Icon bool
}

type ShipmentTypeComboBoxType []inv.ShipmentType

func (s ShipmentTypeComboBoxType) ToSelection(str string) *http_util.Selection {
  value, ok := inv.ToShipmentType(str)
  if !ok {
    return nil
  }
  return &http_util.Selection{Name: value.String(), Value: str}
}

// Selections returns one selection per shipment type in combo box order.
func (s ShipmentTypeComboBoxType) Selections() []http_util.Selection {
  result := make([]http_util.Selection, len(s))
  for i, value := range s {
    result[i] = http_util.Selection{
        Name: value.String(), Value: value.ToString()}
  }
  return result
}

var (
  // Represents the combo box for shipment types.
  // Implements http_util.SelectModel
  ShipmentTypeComboBox = ShipmentTypeComboBoxType{
      inv.UnknownShipment, inv.InternalShipment, inv.Donation, inv.Purchase}
)

// NewGorillaSession creates a gorilla session for the warehouse app
func NewGorillaSession(
    sessionStore sessions.Store, r *http.Request) (*sessions.Session, error) {
  return sessionStore.Get(r, kSessionCookieName)
}

// UserSession represents a session where user is logged in.
type UserSession struct {
  session_util.UserIdSession
  *sessions.Session
  // User is the logged in user or nil if no user logged in
  User *inv.User

  // Main store for accessing sites, requests, and users
  Store interface{}
}

// CreateUserSession creates a UserSession instance from a gorilla session
// but does not populate the user field of the returned session.
func CreateUserSession(s *sessions.Session) *UserSession {
  return &UserSession{
      UserIdSession: session_util.UserIdSession{s},
      Session: s,
  }
}

// NewUserSession creates a UserSession and associates it with the request
// instance. If user not logged in, the User field in returned UserSession is
// nil. Caller must call context.Clear with request instance.
func NewUserSession(
    store invdb.UserByIdRunner,
    sessionStore sessions.Store,
    r *http.Request) (*UserSession, error) {
  us, err := session_util.NewUserSession(
      sessionStore,
      r,
      kSessionCookieName,
      func(s *sessions.Session) session_util.UserSession {
        return CreateUserSession(s)
      },
      userGetter{store},
      invdb.NoSuchId)
  if err != nil {
    return nil, err
  }
  return us.(*UserSession), nil
}

// GetUserSession gets the UserSession associated with the request.
// It can only be called after successful completion of NewUserSession.
func GetUserSession(r *http.Request) *UserSession {
  return session_util.GetUserSession(r).(*UserSession)
}

func (s *UserSession) SetUser(userPtr interface{}) {
  s.User = userPtr.(*inv.User)
}

// NewTemplate returns a new template instance. name is the name
// of the template; templateStr is the template string.
func NewTemplate(name, templateStr string) *template.Template {
  return template.Must(template.New(name).Parse(templateStr))
}

type userGetter struct {
  invdb.UserByIdRunner
}

func (g userGetter) GetUser(id int64) (interface{}, error) {
  var user inv.User
  if err := g.UserById(nil, id, &user); err != nil {
    return nil, err
  }
  return &user, nil
}
