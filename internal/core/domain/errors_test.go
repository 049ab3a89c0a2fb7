package domain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoEndpoint", ErrNoEndpoint},
		{"ErrMalformedEndpoint", ErrMalformedEndpoint},
		{"ErrNoSession", ErrNoSession},
		{"ErrNothingToAdopt", ErrNothingToAdopt},
		{"ErrSuperseded", ErrSuperseded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("collection", "is required")
	assert.Equal(t, "validation failed: collection is required", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	bare := &ValidationError{Reason: "nothing to do"}
	assert.Equal(t, "validation failed: nothing to do", bare.Error())
}

func TestPreconditionError(t *testing.T) {
	err := PreconditionError(ErrNoSession)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NotErrorIs(t, err, ErrNothingToAdopt)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "validation failed: no prompt refinement in progress", err.Error())
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Method: "DELETE", Path: "/rag-pipeline/chunks/x", StatusCode: 404, Body: "missing"}
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "missing")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsRemoteError(fmt.Errorf("wrapped: %w", err)))

	noBody := &RemoteError{Method: "GET", Path: "/x", StatusCode: 500}
	assert.Equal(t, "API request failed: GET /x returned status 500", noBody.Error())
	assert.False(t, IsNotFound(noBody))
}

func TestUnreachableError_Timeout(t *testing.T) {
	timeout := &UnreachableError{Method: "GET", URL: "http://h/x", Err: context.DeadlineExceeded}
	assert.True(t, timeout.Timeout())
	assert.Contains(t, timeout.Error(), "timed out")

	refused := &UnreachableError{Method: "GET", URL: "http://h/x", Err: errors.New("connection refused")}
	assert.False(t, refused.Timeout())
	assert.Contains(t, refused.Error(), "connection refused")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"validation", NewValidationError("x", "bad"), KindValidation},
		{"remote", &RemoteError{StatusCode: 500}, KindRemote},
		{"unreachable", &UnreachableError{Err: errors.New("refused")}, KindUnreachable},
		{"setup", &SetupError{Op: "encode", Err: errors.New("bad")}, KindSetup},
		{"wrapped remote", fmt.Errorf("ctx: %w", &RemoteError{StatusCode: 400}), KindRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNeedsReconfiguration(t *testing.T) {
	_, parseErr := url.Parse("http://[::1")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unreachable", &UnreachableError{Err: errors.New("refused")}, true},
		{"malformed endpoint", &SetupError{Op: "endpoint", Err: ErrMalformedEndpoint}, true},
		{"url parse failure", &SetupError{Op: "build request", Err: parseErr}, true},
		{"no endpoint", &SetupError{Op: "endpoint", Err: ErrNoEndpoint}, false},
		{"serialisation", &SetupError{Op: "encode body", Err: errors.New("bad json")}, false},
		{"remote", &RemoteError{StatusCode: 500}, false},
		{"validation", NewValidationError("prompt", "is required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsReconfiguration(tt.err))
		})
	}
}
