package seed_test

import (
	"strings"
	"testing"

	"github.com/JamesGlub/eden-1/apps/warehouse/seed"
	"github.com/JamesGlub/eden-1/inv/invdb/for_sqlite"
	"github.com/JamesGlub/eden-1/inv/invdb/sqlite_setup"
	"github.com/keep94/appcommon/db/sqlite_db"
	"github.com/keep94/gosqlite/sqlite"
	"github.com/stretchr/testify/assert"
)

const kSeedFile = `
sites:
  - name: Field Hospital
  - name: Main Warehouse
  - name: Closed Depot
    obsolete: true
reqs:
  - site: Field Hospital
    purpose: Medical supplies
grants:
  - user_id: 25
    site: Field Hospital
`

func TestSeed(t *testing.T) {
	assert := assert.New(t)
	db := openDb(t)
	defer db.Close()
	store := for_sqlite.New(db)
	data, err := seed.Read(strings.NewReader(kSeedFile))
	assert.Nil(err)
	assert.Nil(data.Apply(sqlite_db.NewDoer(db), store))

	sites, err := store.ActiveSites(nil)
	assert.Nil(err)
	assert.Len(sites, 2)
	reqs, err := store.OpenReqs(nil)
	assert.Nil(err)
	assert.Len(reqs, 1)
	assert.Equal("Medical supplies", reqs[0].Purpose)
	recvIds, err := store.RecvSiteIds(nil, 25)
	assert.Nil(err)
	assert.Len(recvIds, 1)
	assert.True(recvIds[reqs[0].SiteId])
}

func TestSeedUnknownSite(t *testing.T) {
	assert := assert.New(t)
	db := openDb(t)
	defer db.Close()
	store := for_sqlite.New(db)
	data, err := seed.Read(strings.NewReader(`
sites:
  - name: Field Hospital
reqs:
  - site: Atlantis
`))
	assert.Nil(err)
	assert.Equal(
		seed.NoSuchSite, data.Apply(sqlite_db.NewDoer(db), store))
}

func TestSeedBadYaml(t *testing.T) {
	assert := assert.New(t)
	_, err := seed.Read(strings.NewReader("sites: {not a list}"))
	assert.Error(err)
}

func openDb(t *testing.T) *sqlite_db.Db {
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
	return db
}
