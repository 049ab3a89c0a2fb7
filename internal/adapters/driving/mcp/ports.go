package mcp

import (
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Refinement holds the prompt refinement session of the connected host.
	Refinement driving.RefinementCoordinator

	// Ingestion submits document batches.
	Ingestion driving.IngestionCoordinator

	// Documents reads and deletes stored documents and chunks.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Refinement == nil {
		return ErrMissingRefinementService
	}
	// Ingestion and Documents are optional
	return nil
}
