// Package mcp provides an MCP (Model Context Protocol) server adapter for artisan.
// It lets AI assistants refine prompts, ingest files and inspect stored chunks.
package mcp

import "errors"

// ErrMissingRefinementService is returned when the refinement coordinator is not provided.
var ErrMissingRefinementService = errors.New("mcp: refinement service is required")

// errUnavailable is returned by tools whose service was not provided.
var errUnavailable = errors.New("mcp: operation not available")
