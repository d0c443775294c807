package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registryServer answers for every source. Crossref knows funders.
func registryServer(t *testing.T, funders string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/w/api.php":
			_, _ = w.Write([]byte(`{"search": []}`))
		case r.URL.Path == "/ror":
			_, _ = w.Write([]byte(`{"number_of_results": 0, "items": []}`))
		case r.URL.Path == "/crossref":
			_, _ = fmt.Fprintf(w, `{"status": "ok", "message": {"total-results": 1, "items": %s}}`, funders)
		case r.URL.Path == "/orcid/":
			_, _ = w.Write([]byte(`{"expanded-result": null, "num-found": 0}`))
		case r.URL.Path == "/citations":
			_, _ = w.Write([]byte(`<html><body><div id="gsc_sa_ccl"></div></body></html>`))
		case strings.HasPrefix(r.URL.Path, "/github/repos/ror-community/ror-updates/issues"):
			if r.URL.Query().Get("state") == "closed" && r.URL.Query().Get("page") == "1" {
				_, _ = w.Write([]byte(`[{"number": 42, "title": "Add a new organization to ROR: Test Org",
					"labels": [{"name": "new record"}], "html_url": "https://github.com/ror-community/ror-updates/issues/42",
					"url": "unused", "body": "request"}]`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeTestConfig(t *testing.T, serverURL string) string {
	t.Helper()
	t.Setenv("GITHUB_USER", "")
	t.Setenv("GITHUB_TOKEN", "")

	content := fmt.Sprintf(`{
		"wikidata_url": "%[1]s/w/api.php",
		"ror_url": "%[1]s/ror",
		"crossref_url": "%[1]s/crossref",
		"orcid_url": "%[1]s/orcid/",
		"scholar_url": "%[1]s/citations",
		"github_api_url": "%[1]s/github",
		"issue_pages": 2,
		"log_level": "disabled"
	}`, serverURL)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckCommand_WritesReport(t *testing.T) {
	server := registryServer(t, `[{"id": "100000001", "name": "Test Org", "alt-names": []}]`)
	cfgPath := writeTestConfig(t, server.URL)
	outPath := filepath.Join(t.TempDir(), "triage_result.txt")

	output, err := executeCommand(context.Background(), "check", "Test Org", "--config", cfgPath, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "crossref_funder_id: 100000001\n", string(data))

	assert.Contains(t, output, "No matches in ROR found for Test Org")
	assert.Contains(t, output, "No google scholar affiliations found")
	assert.Contains(t, output, "No orcid affiliations found")
	assert.Contains(t, output, "Test Org was already requested or previously rejected. See issue#42")
	assert.Contains(t, output, "Triage result written to "+outPath)
}

func TestCheckCommand_ParallelJSON(t *testing.T) {
	server := registryServer(t, `[{"id": "100000001", "name": "Test Org", "alt-names": []}]`)
	cfgPath := writeTestConfig(t, server.URL)
	outPath := filepath.Join(t.TempDir(), "triage_result.json")

	_, err := executeCommand(context.Background(), "check", "Test Org", "--config", cfgPath,
		"--out", outPath, "--format", "json", "--parallel", "--summary")
	require.NoError(t, err)

	output, err := executeCommand(context.Background(), "validate", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "is a valid triage report")
}

func TestCheckCommand_NoMetadata(t *testing.T) {
	server := registryServer(t, `[]`)
	cfgPath := writeTestConfig(t, server.URL)
	outPath := filepath.Join(t.TempDir(), "triage_result.txt")

	output, err := executeCommand(context.Background(), "check", "Nowhere Institute", "--config", cfgPath, "--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, output, "No metadata found for Nowhere Institute")
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckCommand_SourceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	cfgPath := writeTestConfig(t, server.URL)

	_, err := executeCommand(context.Background(), "check", "Test Org", "--config", cfgPath,
		"--out", filepath.Join(t.TempDir(), "out.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `triage of "Test Org" failed`)
}

func TestCheckCommand_Args(t *testing.T) {
	_, err := executeCommand(context.Background(), "check")
	assert.Error(t, err)

	_, err = executeCommand(context.Background(), "check", "a", "b", "c")
	assert.Error(t, err)
}

func TestCheckCommand_InvalidFormat(t *testing.T) {
	server := registryServer(t, `[]`)
	cfgPath := writeTestConfig(t, server.URL)

	_, err := executeCommand(context.Background(), "check", "Test Org", "--config", cfgPath, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestIssuesCommand(t *testing.T) {
	server := registryServer(t, `[]`)
	cfgPath := writeTestConfig(t, server.URL)

	output, err := executeCommand(context.Background(), "issues", "test org", "--config", cfgPath, "--pages", "1")
	require.NoError(t, err)

	assert.Contains(t, output, "test org was already requested or previously rejected. See issue#42")
	assert.Contains(t, output, "ISSUE TRACKER")
	assert.Contains(t, output, "#42 Test Org (100%)")
}

func TestScoreCommand(t *testing.T) {
	output, err := executeCommand(context.Background(), "score", "MIT!", "mit")
	require.NoError(t, err)
	assert.Contains(t, output, "Ratio: 100")

	_, err = executeCommand(context.Background(), "score", "only-one")
	assert.Error(t, err)
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fields": {}}`), 0644))

	_, err := executeCommand(context.Background(), "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
