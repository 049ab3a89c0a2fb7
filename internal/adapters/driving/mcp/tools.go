package mcp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// defaultChunkSize is used when ingest_files is called without chunk_size.
const defaultChunkSize = 500

// OptimizePromptInput is the input schema for the optimize_prompt tool.
type OptimizePromptInput struct {
	Prompt string `json:"prompt" jsonschema:"the prompt to refine"`
}

// OptimizePromptOutput is the output schema for the optimize_prompt tool.
type OptimizePromptOutput struct {
	OriginalPrompt      string   `json:"original_prompt"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
}

// AnswerQuestionsInput is the input schema for the answer_questions tool.
type AnswerQuestionsInput struct {
	Responses []string `json:"responses" jsonschema:"one answer per clarifying question, in order"`
}

// AnswerQuestionsOutput is the output schema for the answer_questions tool.
type AnswerQuestionsOutput struct {
	OptimizedPrompt string `json:"optimized_prompt"`
	KeyImprovements string `json:"key_improvements,omitempty"`
}

// IngestFilesInput is the input schema for the ingest_files tool.
type IngestFilesInput struct {
	Collection string   `json:"collection" jsonschema:"the collection to ingest into"`
	ChunkSize  int      `json:"chunk_size,omitempty" jsonschema:"chunk size for splitting documents (default 500)"`
	Paths      []string `json:"paths" jsonschema:"local paths of the files to ingest"`
}

// IngestFilesOutput is the output schema for the ingest_files tool.
type IngestFilesOutput struct {
	Outcomes  []domain.IngestionOutcome `json:"outcomes"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Skipped   int                       `json:"skipped"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []domain.DocumentRecord `json:"documents"`
	Count     int                     `json:"count"`
}

// DocumentChunksInput is the input schema for the document_chunks tool.
type DocumentChunksInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document whose chunks to return"`
}

// DocumentChunksOutput is the output schema for the document_chunks tool.
type DocumentChunksOutput struct {
	Chunks []domain.ChunkRecord `json:"chunks"`
	Count  int                  `json:"count"`
}

// DeleteChunkInput is the input schema for the delete_chunk tool.
type DeleteChunkInput struct {
	ChunkID string `json:"chunk_id" jsonschema:"the chunk to delete"`
}

// DeleteChunkOutput is the output schema for the delete_chunk tool.
type DeleteChunkOutput struct {
	Deleted string `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "optimize_prompt",
		Description: "Start refining a prompt. Returns clarifying questions to answer with answer_questions.",
	}, s.handleOptimizePrompt)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_questions",
		Description: "Answer the clarifying questions of the last optimize_prompt call and get the optimised prompt",
	}, s.handleAnswerQuestions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_files",
		Description: "Ingest local files into a RAG pipeline collection, one at a time",
	}, s.handleIngestFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents stored by the RAG pipeline",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_chunks",
		Description: "Return the stored chunks of a document",
	}, s.handleDocumentChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_chunk",
		Description: "Delete a single stored chunk by ID",
	}, s.handleDeleteChunk)
}

// handleOptimizePrompt handles the optimize_prompt tool invocation.
func (s *Server) handleOptimizePrompt(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OptimizePromptInput,
) (*mcp.CallToolResult, OptimizePromptOutput, error) {
	session, err := s.ports.Refinement.Submit(ctx, input.Prompt)
	if err != nil {
		return nil, OptimizePromptOutput{}, err
	}
	return nil, OptimizePromptOutput{
		OriginalPrompt:      session.OriginalPrompt,
		ClarifyingQuestions: session.ClarifyingQuestions,
	}, nil
}

// handleAnswerQuestions handles the answer_questions tool invocation.
func (s *Server) handleAnswerQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerQuestionsInput,
) (*mcp.CallToolResult, AnswerQuestionsOutput, error) {
	result, err := s.ports.Refinement.Answer(ctx, input.Responses)
	if err != nil {
		return nil, AnswerQuestionsOutput{}, err
	}
	return nil, AnswerQuestionsOutput{
		OptimizedPrompt: result.OptimizedPrompt,
		KeyImprovements: result.KeyImprovements,
	}, nil
}

// handleIngestFiles handles the ingest_files tool invocation.
func (s *Server) handleIngestFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFilesInput,
) (*mcp.CallToolResult, IngestFilesOutput, error) {
	if s.ports.Ingestion == nil {
		return nil, IngestFilesOutput{}, errUnavailable
	}

	chunkSize := input.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}

	files := make([]domain.IngestionFile, 0, len(input.Paths))
	for _, path := range input.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			files = append(files, domain.UnreadableFile(filepath.Base(path), err))
			continue
		}
		files = append(files, domain.NewIngestionFile(filepath.Base(path), data))
	}

	outcomes, err := s.ports.Ingestion.Ingest(ctx, domain.IngestionRequest{
		Collection: input.Collection,
		ChunkSize:  chunkSize,
		Files:      files,
	}, nil)
	if err != nil {
		return nil, IngestFilesOutput{}, err
	}

	succeeded, failed, skipped := domain.CountOutcomes(outcomes)
	return nil, IngestFilesOutput{
		Outcomes:  outcomes,
		Succeeded: succeeded,
		Failed:    failed,
		Skipped:   skipped,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Documents == nil {
		return nil, ListDocumentsOutput{}, errUnavailable
	}

	docs, err := s.ports.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	if docs == nil {
		docs = []domain.DocumentRecord{}
	}
	return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
}

// handleDocumentChunks handles the document_chunks tool invocation.
func (s *Server) handleDocumentChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentChunksInput,
) (*mcp.CallToolResult, DocumentChunksOutput, error) {
	if s.ports.Documents == nil {
		return nil, DocumentChunksOutput{}, errUnavailable
	}

	chunks, err := s.ports.Documents.DocumentChunks(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentChunksOutput{}, err
	}
	if chunks == nil {
		chunks = []domain.ChunkRecord{}
	}
	return nil, DocumentChunksOutput{Chunks: chunks, Count: len(chunks)}, nil
}

// handleDeleteChunk handles the delete_chunk tool invocation.
func (s *Server) handleDeleteChunk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteChunkInput,
) (*mcp.CallToolResult, DeleteChunkOutput, error) {
	if s.ports.Documents == nil {
		return nil, DeleteChunkOutput{}, errUnavailable
	}

	if err := s.ports.Documents.DeleteChunk(ctx, input.ChunkID); err != nil {
		return nil, DeleteChunkOutput{}, err
	}
	return nil, DeleteChunkOutput{Deleted: input.ChunkID}, nil
}
