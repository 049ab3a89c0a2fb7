// Package tui provides an interactive terminal user interface for artisan.
// It implements a driving adapter following hexagonal architecture principles.
//
// The TUI is a rendering surface over the message boundary: views emit
// inbound messages and the App routes outbound messages back to them.
package tui

import (
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Refinement holds the prompt refinement session.
	Refinement driving.RefinementCoordinator

	// Documents reads and deletes stored documents. Optional; the
	// documents view reports the operation as unavailable without it.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Refinement == nil {
		return ErrMissingRefinementService
	}
	return nil
}

func (p *Ports) boundary() boundary.Ports {
	return boundary.Ports{
		Refinement: p.Refinement,
		Documents:  p.Documents,
	}
}
