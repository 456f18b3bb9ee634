package recvsync

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keep94/appcommon/http_util"
	"github.com/stretchr/testify/assert"
)

var (
	kCannedResponses = map[string]string{
		"5":  `[[["1","Warehouse A"]],[["2","Warehouse B"]]]`,
		"6":  `[[["1","Warehouse A"]],[["2","Warehouse B"],["3","Warehouse C"]]]`,
		"7":  `[[["1","Warehouse A"],["4","Depot"]],[]]`,
		"8":  `[[],[]]`,
		"9":  `[[["1","Warehouse A"],["4","Depot"]],[["2","Warehouse B"],["3","Warehouse C"]]]`,
		"":   `[[],[]]`,
		"66": `this is not json`,
	}
)

func TestSingleFromAndTo(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	typeChanges := 0
	s.RecvType.OnChange(func() { typeChanges++ })
	fetchNow(s, "5")
	assert.Equal(
		[]http_util.Selection{{Name: "Warehouse A", Value: "1"}},
		s.FromSite.Options())
	assert.Equal("1", s.FromSite.Value())
	assert.Equal(
		[]http_util.Selection{{Name: "Warehouse B", Value: "2"}},
		s.ToSite.Options())
	assert.Equal("2", s.ToSite.Value())
	assert.Equal("11", s.RecvType.Value())
	assert.Equal(1, typeChanges)
}

func TestSingleFromManyTo(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "6")
	assert.Equal(
		[]http_util.Selection{{Name: "Warehouse A", Value: "1"}},
		s.FromSite.Options())
	assert.Equal("1", s.FromSite.Value())
	assert.Equal("11", s.RecvType.Value())
	assert.Equal(
		[]http_util.Selection{
			{Name: "Warehouse B", Value: "2"},
			{Name: "Warehouse C", Value: "3"}},
		s.ToSite.Options())
	assert.Equal("", s.ToSite.Value())
}

func TestEmptyToList(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "7")
	assert.Len(s.FromSite.Options(), 2)
	assert.Equal("", s.FromSite.Value())
	assert.Empty(s.ToSite.Options())
	assert.Equal("", s.ToSite.Value())
	// The from list was non empty, so the shipment is still internal.
	assert.Equal("11", s.RecvType.Value())
}

func TestEmptyResponse(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "9")
	typeChanges := 0
	s.RecvType.OnChange(func() { typeChanges++ })
	fetchNow(s, "8")
	assert.Empty(s.FromSite.Options())
	assert.Empty(s.ToSite.Options())
	// Shipment type untouched when there are no from sites.
	assert.Equal("11", s.RecvType.Value())
	assert.Equal(0, typeChanges)
}

func TestManyFromForcesNoValue(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "9")
	assert.Len(s.FromSite.Options(), 2)
	assert.Equal("", s.FromSite.Value())
	assert.Len(s.ToSite.Options(), 2)
	assert.Equal("", s.ToSite.Value())
}

func TestIdempotent(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "6")
	fromOptions := append([]http_util.Selection(nil), s.FromSite.Options()...)
	toOptions := append([]http_util.Selection(nil), s.ToSite.Options()...)
	fetchNow(s, "6")
	assert.Equal(fromOptions, s.FromSite.Options())
	assert.Equal(toOptions, s.ToSite.Options())
	assert.Equal("1", s.FromSite.Value())
}

func TestStaleResponseDiscarded(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	staleGeneration := atomic.AddInt64(&s.generation, 1)
	// A newer change arrives before the first reply is applied.
	fetchNow(s, "9")
	s.fetchSites("5", staleGeneration)
	assert.Len(s.FromSite.Options(), 2)
	assert.Equal("", s.FromSite.Value())
	assert.Len(s.ToSite.Options(), 2)
}

func TestServerErrorLeavesFieldsAlone(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "5")
	fetchNow(s, "55")
	assert.Equal("1", s.FromSite.Value())
	assert.Len(s.FromSite.Options(), 1)
	assert.Len(s.ToSite.Options(), 1)
}

func TestMalformedResponseLeavesFieldsAlone(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	defer server.Close()
	fetchNow(s, "5")
	fetchNow(s, "66")
	assert.Equal("1", s.FromSite.Value())
	assert.Len(s.ToSite.Options(), 1)
}

func TestUnreachableServerLeavesFieldsAlone(t *testing.T) {
	assert := assert.New(t)
	s, server := newSynchronizer(t)
	server.Close()
	fetchNow(s, "5")
	assert.Empty(s.FromSite.Options())
	assert.Empty(s.ToSite.Options())
	assert.Equal("", s.RecvType.Value())
}

func TestEmptyRequestIdStillFetches(t *testing.T) {
	assert := assert.New(t)
	var gotReqId atomic.Value
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			reqIds, ok := r.URL.Query()["req_id"]
			if !ok {
				http.Error(w, "missing req_id", http.StatusBadRequest)
				return
			}
			gotReqId.Store(reqIds[0])
			fmt.Fprint(w, `[[],[]]`)
		}))
	defer server.Close()
	s := newSynchronizerForServer(server)
	fetchNow(s, "")
	assert.Equal("", gotReqId.Load())
}

func TestInitializeWiresRequestField(t *testing.T) {
	s, server := newSynchronizer(t)
	defer server.Close()
	s.Initialize()
	s.Req.Change("5")
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.mutex.Lock()
		value := s.FromSite.Value()
		s.mutex.Unlock()
		if value == "1" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("From site never populated after request change")
}

func TestTypeObserverChangesRequest(t *testing.T) {
	s, server := newSynchronizer(t)
	defer server.Close()
	s.Initialize()
	// A shipment type observer that immediately selects another request.
	// It runs while the first reply is being applied, so it must not
	// deadlock, and its fetch supersedes the reply that triggered it.
	s.RecvType.OnChange(func() {
		if s.Req.Value() == "5" {
			s.Req.Change("8")
		}
	})
	s.Req.Set("5")
	fetchNow(s, "5")
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.mutex.Lock()
		cleared := len(s.FromSite.Options()) == 0 && len(s.ToSite.Options()) == 0
		s.mutex.Unlock()
		if cleared {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Reply for the observer's request never applied")
}

// fetchNow runs one fetch to completion as if the request selector just
// changed to reqId.
func fetchNow(s *Synchronizer, reqId string) {
	s.fetchSites(reqId, atomic.AddInt64(&s.generation, 1))
}

func newSynchronizer(t *testing.T) (*Synchronizer, *httptest.Server) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, ok := kCannedResponses[r.URL.Query().Get("req_id")]
			if !ok {
				http.Error(w, "no such request", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, body)
		}))
	return newSynchronizerForServer(server), server
}

func newSynchronizerForServer(server *httptest.Server) *Synchronizer {
	return &Synchronizer{
		BaseUrl:  server.URL,
		Client:   server.Client(),
		Req:      &SelectField{},
		FromSite: &SelectField{},
		ToSite:   &SelectField{},
		RecvType: &SelectField{},
	}
}
