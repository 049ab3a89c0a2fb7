// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRefine is the prompt refinement view.
	ViewRefine
	// ViewDocuments lists stored documents.
	ViewDocuments
	// ViewChunks lists the chunks of one document.
	ViewChunks
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRefine:
		return "refine"
	case ViewDocuments:
		return "documents"
	case ViewChunks:
		return "chunks"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Send asks the App to hand an inbound message to the boundary.
type Send struct {
	Inbound boundary.Inbound
}

// OutboundReceived carries a message the boundary produced.
type OutboundReceived struct {
	Message boundary.Outbound
}

// DocumentSelected signals a document was opened for its chunks.
type DocumentSelected struct {
	DocumentID string
	Name       string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
