package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	flagIgnoreConfig, flagDebug = false, false
	flagURLs, flagSeedsFile, flagRange, flagList = nil, "", "", ""
	flagOutput, flagPerSeed, flagPrint, flagDryRun, flagPatterns = "", false, false, false, ""
	flagMaxPages, flagDelay, flagSeedWorkers = 0, 0, 0
	flagRenderer, flagTimeout, flagRenderWait, flagRetries, flagCloudflareBypass = "", 0, 0, 0, false
	flagCookie, flagCookieFile, flagUserAgent = "", "", ""
	flagParseURL, flagParsePatterns, flagPatternsFile = "", "", ""
	flagInitYes, forceRemove = false, false
}

// syncBuffer is written by the logger and the progress bars concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func isolateConfig(t *testing.T) {
	t.Helper()

	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags()

	out := &syncBuffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func portal(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/acme_mutual/policies", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		next := ""
		if page == "" {
			next = `<a href="?page=2">Next</a>`
		}
		_, _ = fmt.Fprintf(w, `<html><body>
			<h2>Insured</h2><dl><dt>Insured Name</dt><dd>Acme LLC</dd></dl>
			<h2>Agency</h2><div><b>Agent:</b> Jane Doe</div>
			<h2>Policies</h2>
			<table>
				<tr><th>Policy Number</th><th>Effective Date</th></tr>
				<tr><td>P-1%s</td><td>2024-01-01</td></tr>
			</table>
			%s
		</body></html>`, page, next)
	})
	mux.HandleFunc("/north_star/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<ul><li>Policy Number: NS-9 Premium: $50</li></ul>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestScrape_WritesRecords(t *testing.T) {
	isolateConfig(t)
	srv := portal(t)
	dir := t.TempDir()

	seedsFile := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(seedsFile, []byte(
		"# portal\n"+srv.URL+"/acme_mutual/policies\n\n"+srv.URL+"/north_star/list\n"), 0o644))
	outFile := filepath.Join(dir, "out", "records.json")

	out, err := run(t, "scrape", "--ignore-config",
		"--seeds", seedsFile, "--output", outFile, "--seed-workers", "2", "--retries", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Scrape Summary:")

	b, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var records []struct {
		SourceURL string `json:"source_url"`
		Insured   *struct {
			Name string `json:"name"`
		} `json:"insured"`
		Agency *struct {
			Name string `json:"name"`
		} `json:"agency"`
		Policies []struct {
			PolicyNumber string `json:"policy_number"`
			Premium      string `json:"premium"`
		} `json:"policies"`
		RawData map[string]json.RawMessage `json:"raw_data"`
	}
	require.NoError(t, json.Unmarshal(b, &records))
	require.Len(t, records, 2)

	acme := records[0]
	assert.Equal(t, srv.URL+"/acme_mutual/policies", acme.SourceURL)
	require.NotNil(t, acme.Insured)
	assert.Equal(t, "Acme LLC", acme.Insured.Name)
	require.NotNil(t, acme.Agency)
	assert.Equal(t, "Jane Doe", acme.Agency.Name)
	require.Len(t, acme.Policies, 2)
	assert.Equal(t, "P-1", acme.Policies[0].PolicyNumber)
	assert.Equal(t, "P-12", acme.Policies[1].PolicyNumber)
	assert.Contains(t, acme.RawData, "Policies")

	ns := records[1]
	assert.Nil(t, ns.Insured)
	require.Len(t, ns.Policies, 1)
	assert.Equal(t, "$50", ns.Policies[0].Premium)
}

func TestScrape_PerSeedAndSelection(t *testing.T) {
	isolateConfig(t)
	srv := portal(t)
	dir := t.TempDir()

	out, err := run(t, "scrape", "--ignore-config",
		"--url", srv.URL+"/acme_mutual/policies", "--url", srv.URL+"/north_star/list",
		"--list", "2", "--per-seed", "--output", dir, "--max-pages", "1")
	require.NoError(t, err, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "002_north_star.json", entries[0].Name())
}

func TestScrape_DryRun(t *testing.T) {
	isolateConfig(t)
	out, err := run(t, "scrape", "--ignore-config", "--dry-run",
		"--url", "https://portal.test/acme_mutual/policies", "--url", "https://portal.test/b/c", "--range", "1-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Dry-run: 1 of 2 seeds selected.")
	assert.Contains(t, out, "Acme Mutual")
	assert.NotContains(t, out, "portal.test/b/c")
}

func TestScrape_NoSeedsSelected(t *testing.T) {
	isolateConfig(t)
	_, err := run(t, "scrape", "--ignore-config", "--url", "https://portal.test/a/b", "--range", "3-4")
	require.EqualError(t, err, "no seeds selected")
}

func TestScrape_UnknownRenderer(t *testing.T) {
	isolateConfig(t)
	_, err := run(t, "scrape", "--ignore-config", "--url", "https://portal.test/a/b", "--renderer", "lynx")
	require.ErrorContains(t, err, "unknown renderer")
}

func TestParse(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<table>
		<tr><th>Policy Number</th><th>Effective Date</th></tr>
		<tr><td>P-100</td><td>2024-01-01</td></tr>
	</table><a href="/p2">next</a>`), 0o644))

	out, err := run(t, "parse", path, "--url", "https://portal.test/p1")
	require.NoError(t, err)

	assert.Contains(t, out, `"policy_number": "P-100"`)
	assert.Contains(t, out, `"effective_date": "2024-01-01"`)
	assert.Contains(t, out, `"source_url": "https://portal.test/p1"`)
	assert.Contains(t, out, "next page: https://portal.test/p2")
}

func TestPatterns(t *testing.T) {
	isolateConfig(t)
	out, err := run(t, "patterns")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "policy_indicators:"))
	assert.Contains(t, out, "key: agency code")
	assert.Contains(t, out, "field: agency_code")
}

func TestVersion(t *testing.T) {
	isolateConfig(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "polscrape version: dev\n", out)
}

func TestConfigProfiles(t *testing.T) {
	isolateConfig(t)

	out, err := run(t, "config", "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "This config is now active")

	_, err = run(t, "config", "add", "work")
	require.NoError(t, err)

	_, err = run(t, "config", "switch", "work")
	require.NoError(t, err)

	out, err = run(t, "config", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Default"))
	assert.True(t, strings.HasPrefix(lines[2], "work"))
	assert.True(t, strings.HasSuffix(lines[2], "yes"))

	out, err = run(t, "config", "remove", "work", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Fallback switched to: Default")

	out, err = run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("configs", "Default.yaml"))
}
