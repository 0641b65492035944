package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenderctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseConfigAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  url: http://127.0.0.1:8000
scan:
  keywords: solar epc
run:
  company_profile: examples/company.json
`)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultDays, cfg.Scan.Days)
	require.Equal(t, DefaultTop, cfg.Scan.Top)
	require.Equal(t, DefaultMaxPages, cfg.Scan.MaxPages)
	require.Equal(t, DefaultFanOut, cfg.Run.FanOut)
	require.Equal(t, DefaultShortlistTop, cfg.Run.ShortlistTop)
	require.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
}

func TestParseConfigRejectsMissingKeywords(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  url: http://127.0.0.1:8000
scan:
  keywords: "   "
run:
  company_profile: examples/company.json
`)

	_, err := ParseConfig(path)
	require.Error(t, err)
	var verr *tenderrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "scan.keywords", verr.Field)
}

func TestParseConfigRejectsBadURL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  url: not-a-url
scan:
  keywords: solar
run:
  company_profile: examples/company.json
`)

	_, err := ParseConfig(path)
	require.Error(t, err)
	var verr *tenderrors.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseConfigRejectsFanOutAboveThree(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  url: http://127.0.0.1:8000
scan:
  keywords: solar
run:
  company_profile: examples/company.json
  fan_out: 4
`)

	_, err := ParseConfig(path)
	require.Error(t, err)
}

func TestParseConfigRejectsLLMBatchLargerThanCandidates(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  url: http://127.0.0.1:8000
scan:
  keywords: solar
  llm_filter: true
  llm_max_candidates: 10
  llm_batch_size: 20
run:
  company_profile: examples/company.json
`)

	_, err := ParseConfig(path)
	require.Error(t, err)
	var verr *tenderrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "scan.llm_batch_size", verr.Field)
}

func TestParseConfigReportsYAMLLine(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "server:\n  url: [broken\n")

	_, err := ParseConfig(path)
	require.Error(t, err)
	var perr *tenderrors.ParseError
	require.ErrorAs(t, err, &perr)
}
