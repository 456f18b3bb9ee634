// Package recv provides the receive shipment form.
package recv

import (
  "github.com/JamesGlub/eden-1/apps/warehouse/common"
  "github.com/JamesGlub/eden-1/inv"
  "github.com/JamesGlub/eden-1/inv/invdb"
  "github.com/keep94/appcommon/http_util"
  "html/template"
  "net/http"
  "strconv"
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
  <script type="text/javascript" src="/static/warehouse.js"></script>
</head>
<body>
<div class="main">
<h2>Receive Shipment</h2>
<form method="post">
  <table>
    <tr>
      <td>Request: </td>
      <td>
        <select id="link_defaultreq" name="link_defaultreq" size=1>
          <option value=""></option>
        {{range .OpenReqs}}
          <option value="{{.Id}}">{{$.ReqLabel .}}</option>
        {{end}}
        </select>
      </td>
    </tr>
    <tr>
      <td>From Site: </td>
      <td>
        <select id="inv_recv_from_site_id" name="inv_recv_from_site_id" size=1>
        </select>
      </td>
    </tr>
    <tr>
      <td>To Site: </td>
      <td>
        <select id="inv_recv_site_id" name="inv_recv_site_id" size=1>
        </select>
      </td>
    </tr>
    <tr>
      <td>Shipment Type: </td>
      <td>
        <select id="inv_recv_type" name="inv_recv_type" size=1>
        {{range .ShipmentTypes}}
          <option value="{{.Value}}">{{.Name}}</option>
        {{end}}
        </select>
      </td>
    </tr>
  </table>
</form>
</div>
<script type="text/javascript">
  initRecvForm("");
</script>
</body>
</html>`
)

var (
  kTemplate *template.Template
)

// Store is what Handler needs from the persistence layer.
type Store interface {
  invdb.OpenReqsRunner
  invdb.SiteByIdRunner
}

type Handler struct {
  Store Store
  Global *common.Global
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
  reqs, err := h.Store.OpenReqs(nil)
  if err != nil {
    http_util.ReportError(w, "Error reading database.", err)
    return
  }
  http_util.WriteTemplate(w, kTemplate, &view{
      OpenReqs: reqs,
      Global: h.Global,
      siteNames: h.siteNames(reqs)})
}

func (h *Handler) siteNames(reqs []*inv.Req) map[int64]string {
  result := make(map[int64]string, len(reqs))
  for _, req := range reqs {
    if _, ok := result[req.SiteId]; ok {
      continue
    }
    var site inv.Site
    if err := h.Store.SiteById(nil, req.SiteId, &site); err == nil {
      result[req.SiteId] = site.Name
    }
  }
  return result
}

type view struct {
  OpenReqs []*inv.Req
  Global *common.Global
  siteNames map[int64]string
}

// ReqLabel returns the option label for one request, e.g
// "REQ-7: Field Hospital (Medical supplies)".
func (v *view) ReqLabel(req *inv.Req) string {
  label := "REQ-" + strconv.FormatInt(req.Id, 10)
  if name, ok := v.siteNames[req.SiteId]; ok {
    label += ": " + name
  }
  if req.Purpose != "" {
    label += " (" + req.Purpose + ")"
  }
  return label
}

func (v *view) ShipmentTypes() []http_util.Selection {
  return common.ShipmentTypeComboBox.Selections()
}

func init() {
  kTemplate = common.NewTemplate("recv", kTemplateSpec)
}
