package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecords      = errors.New("no records returned for the requested range")
	ErrRegionNotFound = errors.New("region not found in code table")
)

// ValidationError reports a bad argument. It is raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// AuthError means the upstream API rejected the credential. Never retried.
type AuthError struct {
	Source  string
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s rejected the API key (HTTP %d): %s", e.Source, e.Status, e.Message)
	}
	return fmt.Sprintf("%s rejected the API key: %s", e.Source, e.Message)
}

// UpstreamError is a transient upstream failure that survived every retry.
type UpstreamError struct {
	Source   string
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Source, e.Attempts, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IOError wraps a filesystem failure with the path it happened on.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitAuth       = 3
	ExitUpstream   = 4
	ExitIO         = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var validationErr *ValidationError
	var authErr *AuthError
	var upstreamErr *UpstreamError
	var ioErr *IOError

	switch {
	case errors.As(err, &validationErr):
		return ExitValidation
	case errors.As(err, &authErr):
		return ExitAuth
	case errors.As(err, &upstreamErr):
		return ExitUpstream
	case errors.As(err, &ioErr):
		return ExitIO
	default:
		return ExitFailure
	}
}
