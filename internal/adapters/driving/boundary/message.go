// Package boundary connects rendering surfaces to the coordinators through
// discriminant-tagged messages.
//
// A surface sends Inbound messages and receives Outbound messages. Each
// connection owns one Dispatcher, which handles one message at a time in
// arrival order. Outbound messages echo the requestId of the inbound message
// that produced them; one is generated when the surface sends none.
//
// Two transports are provided: newline-delimited JSON (ServeLines, used over
// stdio) and websockets (WebSocketHandler).
package boundary

import "github.com/custodia-labs/artisan-cli/internal/core/domain"

// MessageType is the discriminant of a message.
type MessageType string

// Inbound message types.
const (
	TypeOptimizePrompt     MessageType = "optimizePrompt"
	TypeSubmitResponses    MessageType = "submitResponses"
	TypeAdoptTemplate      MessageType = "adoptTemplate"
	TypeIngestDocument     MessageType = "ingestDocument"
	TypeViewDocuments      MessageType = "viewDocuments"
	TypeRefreshDocuments   MessageType = "refreshDocuments"
	TypeDeleteDocument     MessageType = "deleteDocument"
	TypeViewDocumentChunks MessageType = "viewDocumentChunks"
	TypeDeleteChunk        MessageType = "deleteChunk"
)

// Outbound message types.
const (
	TypeClarifyingQuestions MessageType = "clarifyingQuestions"
	TypeOptimizedPrompt     MessageType = "optimizedPrompt"
	TypeTemplateAdopted     MessageType = "templateAdopted"
	TypeIngestionProgress   MessageType = "ingestionProgress"
	TypeIngestionComplete   MessageType = "ingestionComplete"
	TypeDocumentsLoaded     MessageType = "documentsLoaded"
	TypeChunksLoaded        MessageType = "chunksLoaded"
	TypeChunkDeleted        MessageType = "chunkDeleted"
	TypeError               MessageType = "error"
)

// FilePayload is a file sent by the surface, already base64-encoded.
type FilePayload struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Inbound is a message from the surface. Only the fields relevant to Type
// are read.
type Inbound struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`

	// optimizePrompt
	Prompt string `json:"prompt,omitempty"`

	// submitResponses
	Responses []string `json:"responses,omitempty"`

	// ingestDocument, and viewDocuments for a collection listing
	Collection string        `json:"collection,omitempty"`
	ChunkSize  int           `json:"chunkSize,omitempty"`
	Files      []FilePayload `json:"files,omitempty"`

	// deleteDocument, viewDocumentChunks
	DocumentID string `json:"documentId,omitempty"`

	// deleteChunk
	ChunkID string `json:"chunkId,omitempty"`
}

// IngestionSummary tallies a finished batch.
type IngestionSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Outbound is a message to the surface.
type Outbound struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`

	// clarifyingQuestions
	OriginalPrompt string   `json:"originalPrompt,omitempty"`
	Questions      []string `json:"questions,omitempty"`

	// optimizedPrompt
	OptimizedPrompt string `json:"optimizedPrompt,omitempty"`
	KeyImprovements string `json:"keyImprovements,omitempty"`

	// templateAdopted
	Template string `json:"template,omitempty"`

	// ingestionProgress, ingestionComplete
	Outcome  *domain.IngestionOutcome  `json:"outcome,omitempty"`
	Outcomes []domain.IngestionOutcome `json:"outcomes,omitempty"`
	Summary  *IngestionSummary         `json:"summary,omitempty"`

	// documentsLoaded, chunksLoaded, chunkDeleted. Listings are omitted
	// only when nil, so an empty listing still carries its field.
	Documents  []domain.DocumentRecord `json:"documents,omitzero"`
	Collection string                  `json:"collection,omitempty"`
	DocumentID string                  `json:"documentId,omitempty"`
	Chunks     []domain.ChunkRecord    `json:"chunks,omitzero"`
	ChunkID    string                  `json:"chunkId,omitempty"`

	// error
	Kind    domain.ErrorKind `json:"kind,omitempty"`
	Message string           `json:"message,omitempty"`
}

// SendFunc delivers an outbound message. Delivery is fire-and-forget.
type SendFunc func(Outbound)
