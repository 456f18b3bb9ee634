// Package recvsync keeps the receive form's site selectors in sync with
// the selected request.
//
// When the request selector changes, a Synchronizer fetches the candidate
// source and destination sites for that request from the server and
// repopulates the two dependent site selectors, auto selecting a site when
// it is the only choice and marking the shipment as an internal shipment.
package recvsync

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/JamesGlub/eden-1/inv"
	"github.com/keep94/appcommon/http_util"
)

const (
	kRecvSitesPath = "/inv/req/recv_sites.json"
)

// SelectField models one selector on a form: an ordered option list, a
// current value, and change observers. The zero value is an empty selector
// ready to use. SelectField methods are not safe to call concurrently;
// a Synchronizer serializes its own access under its mutex.
type SelectField struct {
	options   []http_util.Selection
	value     string
	observers []func()
}

// Options returns the current options in order.
func (f *SelectField) Options() []http_util.Selection {
	return f.options
}

// Value returns the current value.
func (f *SelectField) Value() string {
	return f.value
}

// Set changes the current value without notifying observers.
func (f *SelectField) Set(value string) {
	f.value = value
}

// Change changes the current value and fires the observers, like a user
// editing the field would.
func (f *SelectField) Change(value string) {
	f.value = value
	for _, observer := range f.observers {
		observer()
	}
}

// OnChange registers an observer to run whenever Change is called.
// A Synchronizer fires observers on its shipment type field while it holds
// its own mutex, so such an observer may change the request selector but
// must not block waiting for another reply to be applied.
func (f *SelectField) OnChange(observer func()) {
	f.observers = append(f.observers, observer)
}

// ClearOptions removes all options and clears the current value.
func (f *SelectField) ClearOptions() {
	f.options = nil
	f.value = ""
}

// AddOption appends an option.
func (f *SelectField) AddOption(value, name string) {
	f.options = append(f.options, http_util.Selection{Name: name, Value: value})
}

// Synchronizer keeps FromSite, ToSite, and RecvType consistent with the
// request selected in Req. Each request change starts one fetch in its own
// goroutine; the reply is applied under the synchronizer's mutex, and a
// reply belonging to a superseded request change is discarded.
//
// Fetch failures of any kind are silent: the fields keep the state they had
// before the failed fetch.
type Synchronizer struct {
	// BaseUrl is the application root such as "https://host/eden". Required.
	BaseUrl string
	// Client is the HTTP client to use. nil means http.DefaultClient.
	Client *http.Client
	// Req is the request selector, named link_defaultreq on the live form.
	Req *SelectField
	// FromSite is the source site selector, inv_recv_from_site_id.
	FromSite *SelectField
	// ToSite is the destination site selector, inv_recv_site_id.
	ToSite *SelectField
	// RecvType is the shipment type selector, inv_recv_type.
	RecvType *SelectField

	// mutex serializes application of fetched replies to the fields.
	mutex sync.Mutex
	// generation counts request changes so stale replies are detected.
	generation int64
}

// Initialize registers the change observer on the request selector. Call
// it once, before the first request change.
func (s *Synchronizer) Initialize() {
	s.Req.OnChange(s.requestChanged)
}

// requestChanged starts a fetch for the currently selected request. An
// empty request id still fetches; the server answers it with two empty
// lists which clear both site selectors.
func (s *Synchronizer) requestChanged() {
	reqId := s.Req.Value()
	generation := atomic.AddInt64(&s.generation, 1)
	go s.fetchSites(reqId, generation)
}

func (s *Synchronizer) fetchSites(reqId string, generation int64) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	params := url.Values{}
	params.Set("req_id", reqId)
	resp, err := client.Get(s.BaseUrl + kRecvSitesPath + "?" + params.Encode())
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}
	var sites inv.RecvSites
	if err := json.NewDecoder(resp.Body).Decode(&sites); err != nil {
		return
	}
	s.apply(&sites, generation)
}

func (s *Synchronizer) apply(sites *inv.RecvSites, generation int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if generation != atomic.LoadInt64(&s.generation) {
		// A newer request change superseded this fetch.
		return
	}
	s.FromSite.ClearOptions()
	s.ToSite.ClearOptions()
	if len(sites.From) > 0 {
		for _, site := range sites.From {
			s.FromSite.AddOption(formatSiteId(site.Id), site.Name)
		}
		if len(sites.From) == 1 {
			s.FromSite.Set(formatSiteId(sites.From[0].Id))
		}
		s.RecvType.Change(inv.InternalShipment.ToString())
	}
	if len(sites.To) == 0 {
		// No valid destination, e.g. the user may not receive anywhere.
		return
	}
	for _, site := range sites.To {
		s.ToSite.AddOption(formatSiteId(site.Id), site.Name)
	}
	if len(sites.To) == 1 {
		s.ToSite.Set(formatSiteId(sites.To[0].Id))
	}
}

func formatSiteId(id int64) string {
	return strconv.FormatInt(id, 10)
}
