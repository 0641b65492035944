package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures run-configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SubmissionError indicates a job-start request that the server rejected or
// that never reached it. Detail carries the server's human-readable message
// when one was returned.
type SubmissionError struct {
	Phase  string
	Status int
	Detail string
	Err    error
}

// NewSubmissionError constructs a SubmissionError for the given phase.
func NewSubmissionError(phase string, status int, detail string, err error) error {
	return &SubmissionError{Phase: phase, Status: status, Detail: detail, Err: err}
}

func (e *SubmissionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("submission error [%s]: %s", e.Phase, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("submission error [%s]: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("submission error [%s]: status %d", e.Phase, e.Status)
}

// Unwrap exposes the underlying error.
func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StreamError represents a failure opening or reading a job's event stream.
type StreamError struct {
	Phase string
	JobID string
	Err   error
}

// NewStreamError constructs a StreamError.
func NewStreamError(phase, jobID string, err error) error {
	return &StreamError{Phase: phase, JobID: jobID, Err: err}
}

func (e *StreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.JobID != "" {
		return fmt.Sprintf("stream error [%s] job %s: %v", e.Phase, e.JobID, e.Err)
	}
	return fmt.Sprintf("stream error [%s]: %v", e.Phase, e.Err)
}

// Unwrap exposes the root error.
func (e *StreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RunError is a fatal run outcome: a discovery or shortlist job failed, so
// the whole run stops. Per-bid failures never produce a RunError.
type RunError struct {
	Phase   string
	Message string
	Err     error
}

// NewRunError constructs a RunError for the given phase.
func NewRunError(phase, message string, err error) error {
	return &RunError{Phase: phase, Message: message, Err: err}
}

func (e *RunError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("run failed [%s]: %s", e.Phase, e.Message)
	}
	return fmt.Sprintf("run failed [%s]: %v", e.Phase, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RunError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
