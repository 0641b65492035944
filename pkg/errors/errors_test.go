package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("tenderctl.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "tenderctl.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "tenderctl.yaml:12")
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("tenderctl.yaml", 0, fmt.Errorf("no such file"))
	require.NotContains(t, err.Error(), ":0:")
	require.Contains(t, err.Error(), "no such file")
}

func TestValidationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("run.fan_out", "must be between 1 and 3", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "run.fan_out", validationErr.Field)
	require.Contains(t, err.Error(), "run.fan_out")
	require.Contains(t, err.Error(), "must be between 1 and 3")
}

func TestSubmissionErrorPrefersServerDetail(t *testing.T) {
	t.Parallel()

	err := NewSubmissionError("fetch", 400, "bid_id is required.", nil)

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, "fetch", submissionErr.Phase)
	require.Equal(t, 400, submissionErr.Status)
	require.Contains(t, err.Error(), "bid_id is required.")
}

func TestSubmissionErrorFallsBackToUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewSubmissionError("scan", 0, "", underlying)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "connection refused")
}

func TestStreamErrorIncludesJobContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("status 404")
	err := NewStreamError("evaluate", "job-7", underlying)

	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
	require.Equal(t, "evaluate", streamErr.Phase)
	require.Equal(t, "job-7", streamErr.JobID)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "job-7")
}

func TestRunErrorMessageWins(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("decode failure")
	err := NewRunError("shortlist", "no reports found", underlying)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, "shortlist", runErr.Phase)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "no reports found")
}
