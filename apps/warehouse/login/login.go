package login

import (
  "github.com/JamesGlub/eden-1/apps/warehouse/common"
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/gorilla/sessions"
  "github.com/keep94/appcommon/db"
  "github.com/keep94/appcommon/http_util"
  "html/template"
  "net/http"
  "time"
)

const (
  kBadLoginMsg = "Login incorrect."
)

var (
  kTemplateSpec = `
<html>
<head>
  <title>{{.Global.Title}}</title>
  {{if .Global.Icon}}
    <link rel="shortcut icon" href="/images/favicon.ico" type="image/x-icon" />
  {{end}}
  <link rel="stylesheet" type="text/css" href="/static/theme.css" />
</head>
<body>
<h2>Login</h2>
{{if .Message}}
  <span class="error">{{.Message}}</span>
{{end}}
<form method="post">
  <table>
    <tr>
      <td>Name: </td>
      <td><input type="text" name="name"></td>
    </tr>
    <tr>
      <td>Password: </td>
      <td><input type="password" name="password"></td>
    </tr>
  </table>
  <br>
  <input type="submit" value="login">
</form>
</body>
</html>`
)

var (
  kTemplate *template.Template
)

type Handler struct {
  Doer db.Doer
  SessionStore sessions.Store
  Store invdb.UpdateUserByNameRunner
  Global *common.Global
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
  if r.Method == "GET" {
    h.writeTemplate(w, "")
  } else {
    r.ParseForm()
    userName := r.Form.Get("name")
    password := r.Form.Get("password")
    var user inv.User
    err := h.Doer.Do(func(t db.Transaction) error {
      return invdb.LoginUser(t, h.Store, userName, password, time.Now(), &user)
    })
    if err == invdb.WrongPassword || err == invdb.NoSuchId {
      h.writeTemplate(w, kBadLoginMsg)
      return
    }
    if err != nil {
      http_util.ReportError(w, "Database error", err)
      return
    }
    gs, err := common.NewGorillaSession(h.SessionStore, r)
    if err != nil {
      http_util.ReportError(w, "Error retrieving session", err)
      return
    }
    session := common.CreateUserSession(gs)
    // Just in case another user is already logged in
    session.ClearAll()
    session.SetUserId(user.Id)
    session.ID = ""  // For added security, force a new session ID
    session.Save(r, w)
    prev := r.Form.Get("prev")
    if prev == "" {
      prev = "/inv/recv"
    }
    http_util.Redirect(w, r, prev)
  }
}

func (h *Handler) writeTemplate(w http.ResponseWriter, message string) {
  http_util.WriteTemplate(w, kTemplate, &view{
      Message: message,
      Global: h.Global})
}

type view struct {
  Message string
  Global *common.Global
}

func init() {
  kTemplate = common.NewTemplate("login", kTemplateSpec)
}
