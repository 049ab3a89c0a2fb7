// Package api provides the HTTP transport to the remote artisan service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 10 * time.Second
	DefaultBurst   = 1

	// maxErrorBody caps how much of a failed response is kept in RemoteError.
	maxErrorBody = 2048
)

// EndpointSource supplies the base URL for each request.
type EndpointSource interface {
	Resolve(ctx context.Context) (domain.Endpoint, bool)
}

// Config holds configuration for the transport.
type Config struct {
	// Timeout bounds each request (default: 10s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the throttle bucket size (default: 1).
	Burst int

	// HTTPClient overrides the underlying client. Its Timeout is replaced.
	HTTPClient *http.Client
}

// Client sends JSON and multipart requests to the resolved endpoint.
// It never retries.
type Client struct {
	endpoints EndpointSource
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a new transport.
func NewClient(endpoints EndpointSource, cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	client := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		client = &clone
	}
	client.Timeout = cfg.Timeout

	c := &Client{
		endpoints: endpoints,
		client:    client,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

// Do sends body as JSON and decodes a 2xx response into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.SetupError{Op: "encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, reader, contentType, out)
}

// Upload sends data as the multipart form field "file".
func (c *Client) Upload(ctx context.Context, path string, data []byte, fileName string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return &domain.SetupError{Op: "encode multipart body", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &domain.SetupError{Op: "encode multipart body", Err: err}
	}
	if err := writer.Close(); err != nil {
		return &domain.SetupError{Op: "encode multipart body", Err: err}
	}

	return c.send(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ep, ok := c.endpoints.Resolve(ctx)
	if !ok {
		return &domain.SetupError{Op: "resolve endpoint", Err: domain.ErrNoEndpoint}
	}
	if err := ep.Validate(); err != nil {
		return &domain.SetupError{Op: "validate endpoint", Err: err}
	}

	url := ep.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &domain.SetupError{Op: "build request", Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.UnreachableError{Method: method, URL: url, Err: err}
		}
	}

	logger.Debug("%s %s", method, url)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.UnreachableError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.UnreachableError{Method: method, URL: url, Err: fmt.Errorf("read response: %w", err)}
	}
	logger.Debug("%s %s -> %d in %s", method, url, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(data)), maxErrorBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("invalid JSON response: %v", err),
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
