package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/httpserve"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// ServerName is how the server introduces itself to hosts.
const ServerName = "artisan"

// Server exposes refinement, ingestion and the document store to MCP hosts.
type Server struct {
	ports   *Ports
	version string
	server  *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported during the handshake.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer registers the tools and resources the ports support.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("mcp server: %w", err)
	}

	s := &Server{ports: ports, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	s.server = mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: s.version}, nil)

	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run speaks MCP over stdin/stdout until ctx is done or the host hangs up.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving %s %s over stdio", ServerName, s.version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler speaks the streamable HTTP transport. Every session shares the
// one refinement coordinator in the ports.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
}

// RunHTTP serves Handler on addr until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	logger.Info("MCP server listening on %s", addr)
	return httpserve.ListenAndServe(ctx, addr, s.Handler())
}
