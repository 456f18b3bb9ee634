package recvsites

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JamesGlub/eden-1/inv"
	"github.com/JamesGlub/eden-1/inv/invdb/for_sqlite"
	"github.com/JamesGlub/eden-1/inv/invdb/sqlite_setup"
	"github.com/keep94/appcommon/db/sqlite_db"
	"github.com/keep94/gosqlite/sqlite"
	"github.com/stretchr/testify/assert"
)

func TestRecvSitesEndpoint(t *testing.T) {
	assert := assert.New(t)
	db, store := openStore(t)
	defer db.Close()
	hospital := &inv.Site{Name: "Field Hospital"}
	warehouse := &inv.Site{Name: "Main Warehouse"}
	assert.Nil(store.AddSite(nil, hospital))
	assert.Nil(store.AddSite(nil, warehouse))
	req := &inv.Req{SiteId: hospital.Id, Purpose: "Bandages", Open: true}
	assert.Nil(store.AddReq(nil, req))
	assert.Nil(store.GrantRecv(nil, 25, hospital.Id))
	handler := newHandler(store, 25)

	body := serve(t, handler, "/inv/req/recv_sites.json?req_id=1")
	assert.Equal(
		`[[["2","Main Warehouse"]],[["1","Field Hospital"]]]`, body)
}

func TestRecvSitesEndpointNoSelection(t *testing.T) {
	assert := assert.New(t)
	db, store := openStore(t)
	defer db.Close()
	handler := newHandler(store, 25)
	assert.Equal(
		`[[],[]]`, serve(t, handler, "/inv/req/recv_sites.json?req_id="))
	assert.Equal(
		`[[],[]]`, serve(t, handler, "/inv/req/recv_sites.json"))
	assert.Equal(
		`[[],[]]`, serve(t, handler, "/inv/req/recv_sites.json?req_id=77"))
}

func TestRecvSitesEndpointNoPermission(t *testing.T) {
	assert := assert.New(t)
	db, store := openStore(t)
	defer db.Close()
	hospital := &inv.Site{Name: "Field Hospital"}
	warehouse := &inv.Site{Name: "Main Warehouse"}
	assert.Nil(store.AddSite(nil, hospital))
	assert.Nil(store.AddSite(nil, warehouse))
	req := &inv.Req{SiteId: hospital.Id, Purpose: "Bandages", Open: true}
	assert.Nil(store.AddReq(nil, req))
	handler := newHandler(store, 25)
	assert.Equal(
		`[[["2","Main Warehouse"]],[]]`,
		serve(t, handler, "/inv/req/recv_sites.json?req_id=1"))
}

func newHandler(store for_sqlite.Store, userId int64) *Handler {
	return &Handler{
		Store: store,
		GetUser: func(r *http.Request) *inv.User {
			return &inv.User{Id: userId, Name: "ops"}
		},
	}
}

func serve(t *testing.T, handler *Handler, url string) string {
	r := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Got status %v", w.Code)
	}
	return strings.TrimSpace(w.Body.String())
}

func openStore(t *testing.T) (*sqlite_db.Db, for_sqlite.Store) {
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
	return db, for_sqlite.New(db)
}
