package domain

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"time"
)

// DefaultSupportedFileTypes are the extensions the ingestion pipeline submits.
var DefaultSupportedFileTypes = []string{"pdf", "docx", "pptx", "txt", "md"}

// FileType derives the ingestion file type from a file name: the extension,
// lowercased, with "markdown" folded to "md".
func FileType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "markdown" {
		return "md"
	}
	return ext
}

// IngestionFile is one file of a batch, already encoded for transport.
type IngestionFile struct {
	Name       string `validate:"required"`
	Base64Data string

	// Err is set when the file could not be read. Such a file fails in
	// its batch without being sent.
	Err error
}

// NewIngestionFile base64-encodes raw file bytes.
func NewIngestionFile(name string, data []byte) IngestionFile {
	return IngestionFile{
		Name:       name,
		Base64Data: base64.StdEncoding.EncodeToString(data),
	}
}

// UnreadableFile is a batch entry for a file that could not be read.
func UnreadableFile(name string, err error) IngestionFile {
	return IngestionFile{Name: name, Err: err}
}

// IngestionRequest is a batch of files to ingest into one collection.
type IngestionRequest struct {
	Collection string          `validate:"required"`
	ChunkSize  int             `validate:"gt=0"`
	Files      []IngestionFile `validate:"min=1,dive"`
}

// OutcomeStatus is the result class of one file in a batch.
type OutcomeStatus string

// Outcome statuses.
const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// IngestionOutcome is the per-file result of a batch.
// Outcomes are reported, never retried.
type IngestionOutcome struct {
	FileName   string        `json:"fileName"`
	Collection string        `json:"collection"`
	FileType   string        `json:"fileType,omitempty"`
	Status     OutcomeStatus `json:"status"`

	// TotalDocuments is the server's running document count for the
	// collection after this file. Only set on success.
	TotalDocuments int `json:"totalDocuments"`

	// Error carries the failure reason, or the warning for skipped files.
	Error string `json:"error,omitempty"`
}

// IngestionBatch is a completed batch as recorded in history.
type IngestionBatch struct {
	ID          string
	Collection  string
	ChunkSize   int
	StartedAt   time.Time
	CompletedAt time.Time
	Outcomes    []IngestionOutcome
}

// Counts tallies outcomes by status.
func (b IngestionBatch) Counts() (succeeded, failed, skipped int) {
	return CountOutcomes(b.Outcomes)
}

// CountOutcomes tallies outcomes by status.
func CountOutcomes(outcomes []IngestionOutcome) (succeeded, failed, skipped int) {
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeSucceeded:
			succeeded++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}
