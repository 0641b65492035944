package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T, serverURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenderctl.yaml")
	body := fmt.Sprintf(`
server:
  url: %s
scan:
  keywords: solar epc
run:
  company_profile: examples/company.json
`, serverURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "tenderctl")
	require.Contains(t, out, "commit:")
}

func TestRootHelpListsSubcommands(t *testing.T) {
	t.Parallel()

	out, err := execute(t)
	require.NoError(t, err)
	require.Contains(t, out, "run")
	require.Contains(t, out, "scan")
	require.Contains(t, out, "report")
}

func TestRunCommandRejectsMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "run", "--config", "does-not-exist.yaml")
	require.Error(t, err)
}

func TestReportCommandPrintsArtifact(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "# TenderFit Report\n"})
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	out, err := execute(t, "report", "reports/b1.md", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "# TenderFit Report")
}

func TestScanCommandPrintsBids(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/jobs/scan", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "scan-1"})
	})
	mux.HandleFunc("/api/jobs/scan-1/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"log\",\"line\":\"scout.start\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"done\",\"result\":{\"bids\":[{\"bid_id\":\"B1\",\"title\":\"Solar EPC works\"}],\"total\":12}}\n\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	out, err := execute(t, "scan", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "Matched 1 bids of 12 scanned")
	require.Contains(t, out, "B1")
	require.Contains(t, out, "Solar EPC works")
}
