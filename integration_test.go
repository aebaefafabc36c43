package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"sjsage522/mpcontacts/config"
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/crawler"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
	"sjsage522/mpcontacts/internal/profiles"
	apperrors "sjsage522/mpcontacts/pkg/errors"
	"sjsage522/mpcontacts/services/cache"
	"sjsage522/mpcontacts/services/publisher"
	"sjsage522/mpcontacts/services/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A small legislature site: one index page and three member pages, one of
// which lives behind a redirect.
var sitePages = map[string]string{
	"/members": `<html><body><div class="roster">
		<a class="member" href="/members/alice">Smith, Alice</a>
		<a class="member" href="/members/bob">Jones, Bob</a>
		<a class="member" href="/members/old-carol">Lee, Carol</a>
		<a class="member" href="/fr/members/alice">Smith, Alice (fr)</a>
	</div></body></html>`,
	"/members/alice": `<html><body>
		<h1>Alice Smith</h1><p class="party">Green</p><p class="riding">Lakeside</p>
		<p class="office">Email: <a href="mailto:alice@assembly.test">alice@assembly.test</a> Phone: 555-0101</p>
	</body></html>`,
	"/members/bob": `<html><body>
		<h1>Bob Jones</h1><p class="party">Liberal</p><p class="riding">Hillcrest</p>
		<p class="office">Email: <a href="mailto:bob@assembly.test">bob@assembly.test</a></p>
	</body></html>`,
	"/members/carol": `<html><body>
		<h1>Carol Lee</h1><p class="party">Independent</p><p class="riding">Riverside</p>
		<p class="office">Phone: 555-0103</p>
	</body></html>`,
}

func newAssemblySite(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/members/old-carol" {
			http.Redirect(w, r, "/members/carol", http.StatusFound)
			return
		}
		body, ok := sitePages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func assemblyProfile(t *testing.T, serverURL string) profiles.Profile {
	t.Helper()
	u, err := url.Parse(serverURL)
	require.NoError(t, err)

	return profiles.Profile{
		ID:             "Testland",
		Name:           "Legislative Assembly of Testland",
		StartURL:       serverURL + "/members",
		AllowedDomains: []string{u.Hostname()},
		Links: discover.LinkSelector{
			Selector: "div.roster a.member",
			Deny:     []string{"/fr/"},
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("h1")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.Text("p.party")),
			extract.Field(contact.FieldConstituency, extract.Text("p.riding")),
			extract.Field(contact.FieldContact, extract.Text(`p.office a[href^="mailto:"]`)),
			extract.Field(contact.FieldTelephone, extract.Regex("p.office", `Phone:\s*([\d-]+)`)),
		},
		Constants: map[string]string{
			contact.FieldProvinceTerritory: "Testland",
			contact.FieldPreferredLanguage: "English",
		},
	}
}

func readJSONLines(t *testing.T, path string) []contact.Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []contact.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec contact.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, scanner.Err())
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func testCrawlerOptions() crawler.Options {
	return crawler.Options{Parallelism: 2, RequestTimeout: 5 * time.Second}
}

func TestEndToEndCrawlToFile(t *testing.T) {
	server := newAssemblySite(t)
	out := filepath.Join(t.TempDir(), "contacts.jsonl")

	fp, err := publisher.NewFilePublisher(out)
	require.NoError(t, err)

	gate := cache.NewGate(cache.NewMemoryService(), time.Minute)
	crawlers, err := crawler.CreateCrawlers([]profiles.Profile{assemblyProfile(t, server.URL)}, gate, testCrawlerOptions())
	require.NoError(t, err)

	results := worker.NewWorker(crawlers, publisher.Multi{fp}, 0, "test").Start(context.Background())
	require.NoError(t, fp.Close())

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, crawler.Stats{IndexPages: 1, Discovered: 3, Records: 3, FieldMisses: 2}, results[0].Stats)

	got := readJSONLines(t, out)
	require.Len(t, got, 3)
	assert.Equal(t, contact.Record{
		Name:                 "Alice Smith",
		PoliticalAffiliation: "Green",
		Constituency:         "Lakeside",
		ProvinceTerritory:    "Testland",
		PreferredLanguage:    "English",
		Contact:              "alice@assembly.test",
		Telephone:            "555-0101",
		Url:                  server.URL + "/members/alice",
	}, got[0])
	assert.Empty(t, got[1].Telephone)
	assert.Equal(t, "Carol Lee", got[2].Name)
	assert.Equal(t, server.URL+"/members/carol", got[2].Url)
	assert.Empty(t, got[2].Contact)
}

func TestEndToEndIsolatesBrokenJurisdiction(t *testing.T) {
	server := newAssemblySite(t)
	out := filepath.Join(t.TempDir(), "contacts.csv")

	good := assemblyProfile(t, server.URL)
	broken := assemblyProfile(t, server.URL)
	broken.ID = "Gone"
	broken.StartURL = server.URL + "/no-such-index"

	fp, err := publisher.NewFilePublisher(out)
	require.NoError(t, err)

	crawlers, err := crawler.CreateCrawlers([]profiles.Profile{broken, good}, nil, testCrawlerOptions())
	require.NoError(t, err)

	results := worker.NewWorker(crawlers, fp, 0, "test").RunOnce(context.Background())
	require.NoError(t, fp.Close())

	total, failed := worker.Summarize(results)
	assert.Equal(t, []string{"Gone"}, failed)
	assert.ErrorIs(t, results[0].Err, apperrors.ErrNetwork)
	assert.Equal(t, 3, total.Records)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name,Govt,PoliticalAffiliation")
	assert.Contains(t, string(data), "Alice Smith")
}

func TestLoadProfiles(t *testing.T) {
	ps, err := loadProfiles(config.Config{
		ProfilesFile:  filepath.Join("internal", "profiles", "testdata", "profiles.yaml"),
		Jurisdictions: []string{"Yukon", "quebec"},
	})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Yukon", ps[0].ID)
	assert.Equal(t, "https://www.assnat.qc.ca/fr/deputes/index.html", ps[1].StartURL)

	_, err = loadProfiles(config.Config{Jurisdictions: []string{"Atlantis"}})
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestInitializeServicesWithoutMemcache(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contacts.json")
	deps, err := initializeServices(context.Background(), config.Config{
		OutputPath: out,
		BlockTime:  time.Minute,
	})
	require.NoError(t, err)

	_, ok := deps.Cache.(*cache.MemoryService)
	assert.True(t, ok)
	require.NoError(t, deps.Gate.Block("BC"))
	blocked, err := deps.Gate.Blocked("bc")
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, deps.Close())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
