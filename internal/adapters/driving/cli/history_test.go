package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "history", "extra")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestHistoryCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	ingestionCoordinator = nil

	_, err := execute(t, "history")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestHistoryCmd_Empty(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No ingestion history.")
	assert.Equal(t, []int{10}, mocks.ingestion.limits)
}

func TestHistoryCmd_PrintsBatches(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.ingestion.batches = []domain.IngestionBatch{
		{
			ID:         "batch-1",
			Collection: "manuals",
			ChunkSize:  750,
			StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Outcomes: []domain.IngestionOutcome{
				{FileName: "guide.pdf", Status: domain.OutcomeSucceeded, TotalDocuments: 4},
				{FileName: "tool.exe", Status: domain.OutcomeSkipped, Error: "unsupported file type"},
			},
		},
	}

	out, err := execute(t, "history", "-n", "3")

	require.NoError(t, err)
	assert.Equal(t, []int{3}, mocks.ingestion.limits)
	assert.Contains(t, out, "manuals")
	assert.Contains(t, out, "chunk size 750")
	assert.Contains(t, out, "batch-1")
	assert.Contains(t, out, "1 succeeded, 0 failed, 1 skipped")
	assert.Contains(t, out, "✓ guide.pdf (collection now has 4 documents)")
	assert.Contains(t, out, "! tool.exe skipped: unsupported file type")
}
