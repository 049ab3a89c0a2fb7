package driven

import "context"

// Transport issues single request/response exchanges against the remote
// service. Paths are relative to the resolved endpoint.
//
// Every error is one of *domain.RemoteError, *domain.UnreachableError or
// *domain.SetupError. Transports never retry.
type Transport interface {
	// Do sends body (JSON-encoded, may be nil) and decodes a 2xx response
	// into out (may be nil to discard the body).
	Do(ctx context.Context, method, path string, body, out any) error

	// Upload sends data as the multipart form field "file" and decodes the
	// response into out (may be nil).
	Upload(ctx context.Context, path string, data []byte, fileName string, out any) error
}
