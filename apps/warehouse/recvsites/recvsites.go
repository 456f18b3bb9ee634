// Package recvsites provides the recv_sites.json endpoint that the receive
// form polls when the selected request changes.
package recvsites

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JamesGlub/eden-1/inv"
	"github.com/JamesGlub/eden-1/inv/invdb"
	"github.com/keep94/appcommon/http_util"
)

type Handler struct {
	Store invdb.RecvSitesStore
	// GetUser returns the logged in user for the request.
	GetUser func(r *http.Request) *inv.User
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	// An unparseable or missing req_id behaves like no selection and
	// yields two empty lists.
	reqId, _ := strconv.ParseInt(r.Form.Get("req_id"), 10, 64)
	user := h.GetUser(r)
	var sites inv.RecvSites
	err := invdb.RecvSites(nil, h.Store, reqId, user.Id, &sites)
	if err != nil {
		http_util.ReportError(w, "Error reading database.", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.Encode(&sites)
}
