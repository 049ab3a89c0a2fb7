package domain

import (
	"errors"
	"fmt"
	"net/url"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type the ingestion pipeline does not accept.
	ErrUnsupportedType = errors.New("unsupported type")

	// Endpoint Errors.

	// ErrNoEndpoint indicates endpoint resolution found nothing and the user
	// declined (or could not be asked) to provide one.
	ErrNoEndpoint = errors.New("API connection not initialised")

	// ErrMalformedEndpoint indicates the configured base URL does not parse
	// as an absolute http(s) URL.
	ErrMalformedEndpoint = errors.New("invalid API URL")

	// Refinement Errors.

	// ErrNoSession indicates answers were submitted before any prompt was optimised.
	ErrNoSession = errors.New("no prompt refinement in progress")

	// ErrNothingToAdopt indicates there is no optimised prompt to reuse.
	ErrNothingToAdopt = errors.New("no optimised prompt available")

	// ErrSuperseded indicates a response arrived for a request that a newer
	// request has replaced. The response was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// ErrorKind classifies failures for callers that need to react differently
// to local input problems, server rejections and connectivity issues.
type ErrorKind string

// Error kinds.
const (
	KindUnknown     ErrorKind = "unknown"
	KindValidation  ErrorKind = "validation"
	KindRemote      ErrorKind = "remote"
	KindUnreachable ErrorKind = "unreachable"
	KindSetup       ErrorKind = "setup"
)

// ValidationError reports bad local input. It is raised before any request
// is sent.
type ValidationError struct {
	Field  string
	Reason string

	// Err is an optional sentinel describing the violated precondition.
	Err error
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PreconditionError creates a validation error for a violated precondition.
func PreconditionError(sentinel error) *ValidationError {
	return &ValidationError{Reason: sentinel.Error(), Err: sentinel}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput) and errors.Is(err, e.Err).
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

// RemoteError reports a response with a non-2xx status.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API request failed: %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("API request failed: %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// UnreachableError reports a request that was sent but got no response:
// connection refused, DNS failure or timeout.
type UnreachableError struct {
	Method string
	URL    string
	Err    error
}

func (e *UnreachableError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("API request failed: no response from %s (timed out)", e.URL)
	}
	return fmt.Sprintf("API request failed: no response from %s: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was cut off by the transport deadline.
func (e *UnreachableError) Timeout() bool {
	var t interface{ Timeout() bool }
	if errors.As(e.Err, &t) {
		return t.Timeout()
	}
	return false
}

// SetupError reports a request that could not be built or sent: no
// endpoint, malformed URL, or a body that failed to serialise.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("API request failed: %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// KindOf classifies an error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var (
		validationErr  *ValidationError
		remoteErr      *RemoteError
		unreachableErr *UnreachableError
		setupErr       *SetupError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.As(err, &unreachableErr):
		return KindUnreachable
	case errors.As(err, &setupErr):
		return KindSetup
	default:
		return KindUnknown
	}
}

// IsRemoteError returns true if the server answered with a non-2xx status.
func IsRemoteError(err error) bool {
	return KindOf(err) == KindRemote
}

// IsUnreachable returns true if no response arrived.
func IsUnreachable(err error) bool {
	return KindOf(err) == KindUnreachable
}

// IsNotFound returns true for a remote 404.
func IsNotFound(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == 404
	}
	return errors.Is(err, ErrNotFound)
}

// NeedsReconfiguration reports whether an error usually means the endpoint is
// stale: nothing answered, or the configured URL is malformed.
func NeedsReconfiguration(err error) bool {
	if IsUnreachable(err) {
		return true
	}
	if KindOf(err) != KindSetup {
		return false
	}
	var urlErr *url.Error
	return errors.Is(err, ErrMalformedEndpoint) || errors.As(err, &urlErr)
}
