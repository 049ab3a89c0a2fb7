package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// Document Command Tests

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage stored documents", documentCmd.Short)
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "chunks")
	assert.Contains(t, commandNames, "collection")
	assert.Contains(t, commandNames, "delete-chunk")
}

// Document List Tests

func TestDocumentListCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents:")
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "Name: guide.pdf")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentListCmd_Empty(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.documents.docs = nil

	out, err := execute(t, "document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDocumentListCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	documentService = nil

	_, err := execute(t, "document", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocumentListCmd_Error(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.documents.err = &domain.UnreachableError{URL: "http://localhost:52773/artisan/api/rag/documents"}

	_, err := execute(t, "document", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list documents")
}

// Document Delete Tests

func TestDocumentDeleteCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "document", "delete")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentDeleteCmd_Executes(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "delete", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, mocks.documents.deletedDocs)
	assert.Contains(t, out, "Document doc-1 deleted.")
}

func TestDocumentDeleteCmd_Error(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.documents.err = &domain.RemoteError{Method: "DELETE", Path: "/rag/documents/doc-9", StatusCode: 404}

	_, err := execute(t, "document", "delete", "doc-9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete document")
	assert.True(t, domain.IsNotFound(err))
}

// Document Chunks Tests

func TestDocumentChunksCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "document", "chunks")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentChunksCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "chunks", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Chunks of document doc-1:")
	assert.Contains(t, out, "chunk-1")
	assert.Contains(t, out, "First chunk content")
	assert.Contains(t, out, "page: 1")
	assert.Contains(t, out, "Total: 2 chunks")
}

func TestDocumentChunksCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "chunks", "doc-2")

	require.NoError(t, err)
	assert.Contains(t, out, "No chunks found for document: doc-2")
}

func TestDocumentChunksCmd_Preview(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.documents.chunks["doc-1"] = []domain.ChunkRecord{
		{ID: "chunk-long", Content: strings.Repeat("a", 50)},
	}

	out, err := execute(t, "document", "chunks", "doc-1", "--preview", "10")

	require.NoError(t, err)
	assert.Contains(t, out, strings.Repeat("a", 10)+"...")
	assert.NotContains(t, out, strings.Repeat("a", 11))
}

// Document Collection Tests

func TestDocumentCollectionCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "collection", "manuals")

	require.NoError(t, err)
	assert.Contains(t, out, "Entries in collection manuals:")
	assert.Contains(t, out, "entry-1")
	assert.Contains(t, out, "Total: 1 chunks")
}

func TestDocumentCollectionCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "collection", "empty")

	require.NoError(t, err)
	assert.Contains(t, out, "No entries found in collection: empty")
}

// Delete Chunk Tests

func TestDocumentDeleteChunkCmd_Executes(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "delete-chunk", "chunk-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"chunk-1"}, mocks.documents.deletedChunks)
	assert.Contains(t, out, "Chunk chunk-1 deleted.")
}

func TestDocumentDeleteChunkCmd_MissingChunk(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.documents.err = &domain.RemoteError{Method: "DELETE", Path: "/rag/chunks/none", StatusCode: 404}

	_, err := execute(t, "document", "delete-chunk", "none")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete chunk")
	assert.True(t, domain.IsRemoteError(err))
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"whitespace collapsed", "a\n\n  b\tc", 10, "a b c"},
		{"truncated", "abcdefgh", 3, "abc..."},
		{"no limit", "abcdefgh", 0, "abcdefgh"},
		{"runes", "héllo wörld", 4, "héll..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preview(tt.content, tt.limit))
		})
	}
}
