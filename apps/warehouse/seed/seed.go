// Package seed loads sites, requests, and receive permissions from a YAML
// file into an empty database.
package seed

import (
	"errors"
	"io"

	"github.com/JamesGlub/eden-1/inv"
	"github.com/JamesGlub/eden-1/inv/invdb"
	"github.com/keep94/appcommon/db"
	"gopkg.in/yaml.v2"
)

var (
	NoSuchSite = errors.New("seed: No such site.")
)

// SiteDef defines one site.
type SiteDef struct {
	Name     string `yaml:"name"`
	Obsolete bool   `yaml:"obsolete"`
}

// ReqDef defines one open request. Site refers to a site by name.
type ReqDef struct {
	Site    string `yaml:"site"`
	Purpose string `yaml:"purpose"`
}

// GrantDef lets a user receive shipments into the named site.
type GrantDef struct {
	UserId int64  `yaml:"user_id"`
	Site   string `yaml:"site"`
}

// Data is the whole seed file.
type Data struct {
	Sites  []SiteDef  `yaml:"sites"`
	Reqs   []ReqDef   `yaml:"reqs"`
	Grants []GrantDef `yaml:"grants"`
}

// Store is what Apply needs from the persistence layer.
type Store interface {
	invdb.AddSiteRunner
	invdb.AddReqRunner
	invdb.GrantRecvRunner
}

// Read reads a seed file.
func Read(r io.Reader) (*Data, error) {
	var result Data
	if err := yaml.NewDecoder(r).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Apply writes the seed data to store in one transaction.
func (d *Data) Apply(doer db.Doer, store Store) error {
	return doer.Do(func(t db.Transaction) error {
		siteIds := make(map[string]int64, len(d.Sites))
		for _, def := range d.Sites {
			site := inv.Site{Name: def.Name, Obsolete: def.Obsolete}
			if err := store.AddSite(t, &site); err != nil {
				return err
			}
			siteIds[def.Name] = site.Id
		}
		for _, def := range d.Reqs {
			siteId, ok := siteIds[def.Site]
			if !ok {
				return NoSuchSite
			}
			req := inv.Req{SiteId: siteId, Purpose: def.Purpose, Open: true}
			if err := store.AddReq(t, &req); err != nil {
				return err
			}
		}
		for _, def := range d.Grants {
			siteId, ok := siteIds[def.Site]
			if !ok {
				return NoSuchSite
			}
			if err := store.GrantRecv(t, def.UserId, siteId); err != nil {
				return err
			}
		}
		return nil
	})
}
