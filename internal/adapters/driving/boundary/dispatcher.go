package boundary

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

var (
	// ErrOperationInFlight is returned by Handle while another message is
	// still being handled.
	ErrOperationInFlight = errors.New("boundary: an operation is already in progress")

	// ErrMissingRefinement is returned when no refinement coordinator is provided.
	ErrMissingRefinement = errors.New("boundary: refinement coordinator is required")

	// ErrUnavailable is reported for messages whose service was not provided.
	ErrUnavailable = errors.New("operation not available")
)

// Ports aggregates the driving ports a dispatcher calls.
type Ports struct {
	// Refinement holds the prompt refinement session. Each connection needs
	// its own.
	Refinement driving.RefinementCoordinator

	// Ingestion submits document batches. Optional.
	Ingestion driving.IngestionCoordinator

	// Documents reads and deletes stored documents. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Refinement == nil {
		return ErrMissingRefinement
	}
	return nil
}

// Dispatcher routes inbound messages to the coordinators and reports the
// results through a SendFunc.
type Dispatcher struct {
	ports Ports
	send  SendFunc
	busy  atomic.Bool
}

// NewDispatcher creates a dispatcher that replies through send.
func NewDispatcher(ports Ports, send SendFunc) (*Dispatcher, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if send == nil {
		send = func(Outbound) {}
	}
	return &Dispatcher{ports: ports, send: send}, nil
}

// Run handles messages from inbox one at a time, in arrival order, until
// inbox is closed or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, inbox <-chan Inbound) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-inbox:
			if !ok {
				return nil
			}
			if err := d.Handle(ctx, in); err != nil {
				d.fail(in, err)
			}
		}
	}
}

// Handle handles a single message. Operation failures are reported as error
// messages; the only error returned is ErrOperationInFlight.
func (d *Dispatcher) Handle(ctx context.Context, in Inbound) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer d.busy.Store(false)

	if in.RequestID == "" {
		in.RequestID = uuid.NewString()
	}
	logger.Debug("boundary: %s (%s)", in.Type, in.RequestID)

	err := d.dispatch(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSuperseded):
		logger.Debug("boundary: dropped superseded %s (%s)", in.Type, in.RequestID)
	default:
		d.fail(in, err)
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, in Inbound) error {
	switch in.Type {
	case TypeOptimizePrompt:
		return d.optimizePrompt(ctx, in)
	case TypeSubmitResponses:
		return d.submitResponses(ctx, in)
	case TypeAdoptTemplate:
		return d.adoptTemplate(in)
	case TypeIngestDocument:
		return d.ingestDocument(ctx, in)
	case TypeViewDocuments:
		return d.viewDocuments(ctx, in)
	case TypeRefreshDocuments:
		if d.ports.Documents != nil {
			d.ports.Documents.Refresh()
		}
		return d.listDocuments(ctx, in)
	case TypeDeleteDocument:
		return d.deleteDocument(ctx, in)
	case TypeViewDocumentChunks:
		return d.viewDocumentChunks(ctx, in)
	case TypeDeleteChunk:
		return d.deleteChunk(ctx, in)
	default:
		return domain.NewValidationError("type", fmt.Sprintf("unknown message type %q", in.Type))
	}
}

func (d *Dispatcher) optimizePrompt(ctx context.Context, in Inbound) error {
	session, err := d.ports.Refinement.Submit(ctx, in.Prompt)
	if err != nil {
		return err
	}
	d.reply(in, Outbound{
		Type:           TypeClarifyingQuestions,
		OriginalPrompt: session.OriginalPrompt,
		Questions:      session.ClarifyingQuestions,
	})
	return nil
}

func (d *Dispatcher) submitResponses(ctx context.Context, in Inbound) error {
	result, err := d.ports.Refinement.Answer(ctx, in.Responses)
	if err != nil {
		return err
	}
	d.reply(in, Outbound{
		Type:            TypeOptimizedPrompt,
		OptimizedPrompt: result.OptimizedPrompt,
		KeyImprovements: result.KeyImprovements,
	})
	return nil
}

func (d *Dispatcher) adoptTemplate(in Inbound) error {
	template, err := d.ports.Refinement.AdoptAsTemplate()
	if err != nil {
		return err
	}
	d.reply(in, Outbound{Type: TypeTemplateAdopted, Template: template})
	return nil
}

func (d *Dispatcher) ingestDocument(ctx context.Context, in Inbound) error {
	if d.ports.Ingestion == nil {
		return ErrUnavailable
	}

	files := make([]domain.IngestionFile, len(in.Files))
	for i, f := range in.Files {
		files[i] = domain.IngestionFile{Name: f.Name, Base64Data: f.Data}
	}
	req := domain.IngestionRequest{
		Collection: in.Collection,
		ChunkSize:  in.ChunkSize,
		Files:      files,
	}

	outcomes, err := d.ports.Ingestion.Ingest(ctx, req, func(outcome domain.IngestionOutcome) {
		d.reply(in, Outbound{Type: TypeIngestionProgress, Outcome: &outcome})
	})
	if err != nil {
		return err
	}

	succeeded, failed, skipped := domain.CountOutcomes(outcomes)
	d.reply(in, Outbound{
		Type:       TypeIngestionComplete,
		Collection: req.Collection,
		Outcomes:   outcomes,
		Summary:    &IngestionSummary{Succeeded: succeeded, Failed: failed, Skipped: skipped},
	})
	return nil
}

// viewDocuments lists a collection's entries when one is named, and the
// stored documents otherwise.
func (d *Dispatcher) viewDocuments(ctx context.Context, in Inbound) error {
	if in.Collection == "" {
		return d.listDocuments(ctx, in)
	}
	if d.ports.Documents == nil {
		return ErrUnavailable
	}
	chunks, err := d.ports.Documents.CollectionDocuments(ctx, in.Collection)
	if err != nil {
		return err
	}
	d.reply(in, Outbound{Type: TypeChunksLoaded, Collection: in.Collection, Chunks: listing(chunks)})
	return nil
}

func (d *Dispatcher) listDocuments(ctx context.Context, in Inbound) error {
	if d.ports.Documents == nil {
		return ErrUnavailable
	}
	docs, err := d.ports.Documents.ListDocuments(ctx)
	if err != nil {
		return err
	}
	d.reply(in, Outbound{Type: TypeDocumentsLoaded, Documents: listing(docs)})
	return nil
}

// deleteDocument deletes and then re-lists, so the surface sees the result.
func (d *Dispatcher) deleteDocument(ctx context.Context, in Inbound) error {
	if d.ports.Documents == nil {
		return ErrUnavailable
	}
	if err := d.ports.Documents.DeleteDocument(ctx, in.DocumentID); err != nil {
		return err
	}
	return d.listDocuments(ctx, in)
}

func (d *Dispatcher) viewDocumentChunks(ctx context.Context, in Inbound) error {
	if d.ports.Documents == nil {
		return ErrUnavailable
	}
	chunks, err := d.ports.Documents.DocumentChunks(ctx, in.DocumentID)
	if err != nil {
		return err
	}
	d.reply(in, Outbound{Type: TypeChunksLoaded, DocumentID: in.DocumentID, Chunks: listing(chunks)})
	return nil
}

func (d *Dispatcher) deleteChunk(ctx context.Context, in Inbound) error {
	if d.ports.Documents == nil {
		return ErrUnavailable
	}
	if err := d.ports.Documents.DeleteChunk(ctx, in.ChunkID); err != nil {
		return err
	}
	d.reply(in, Outbound{Type: TypeChunkDeleted, ChunkID: in.ChunkID})
	return nil
}

func (d *Dispatcher) reply(in Inbound, out Outbound) {
	out.RequestID = in.RequestID
	d.send(out)
}

func (d *Dispatcher) fail(in Inbound, err error) {
	logger.Debug("boundary: %s failed: %v", in.Type, err)
	d.reply(in, Outbound{
		Type:    TypeError,
		Kind:    domain.KindOf(err),
		Message: err.Error(),
	})
}

// listing keeps an empty result distinguishable from a missing one.
func listing[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
