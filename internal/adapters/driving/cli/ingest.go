package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// DefaultChunkSize is the chunk size used when --chunk-size is not given.
const DefaultChunkSize = 500

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into a collection",
	Long: `Submits each file to the RAG pipeline, one at a time and in order.

Files whose type is not supported are skipped with a warning. A file the
service rejects is reported and the remaining files are still submitted.

Examples:
  artisan ingest -c manuals guide.pdf notes.md
  artisan ingest -c manuals --chunk-size 1000 *.docx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a raw file to the RAG pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var (
	ingestCollection string
	ingestChunkSize  int
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "Target collection (required)")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", DefaultChunkSize, "Chunk size for splitting documents")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionCoordinator == nil {
		return errors.New("ingestion service not configured")
	}

	// Unreadable files fail in the batch, after the request is validated.
	files := make([]domain.IngestionFile, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			files = append(files, domain.UnreadableFile(filepath.Base(path), err))
			continue
		}
		files = append(files, domain.NewIngestionFile(filepath.Base(path), data))
	}

	req := domain.IngestionRequest{
		Collection: ingestCollection,
		ChunkSize:  ingestChunkSize,
		Files:      files,
	}

	cmd.Printf("Ingesting %d file(s) into %s...\n", len(files), bold(strings.TrimSpace(ingestCollection)))

	outcomes, err := ingestionCoordinator.Ingest(cmd.Context(), req, func(o domain.IngestionOutcome) {
		printOutcome(cmd, o)
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	succeeded, failed, skipped := domain.CountOutcomes(outcomes)
	cmd.Printf("\nDone: %d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)
	return nil
}

func printOutcome(cmd *cobra.Command, o domain.IngestionOutcome) {
	switch o.Status {
	case domain.OutcomeSucceeded:
		cmd.Printf("  %s %s (collection now has %d documents)\n", success("✓"), o.FileName, o.TotalDocuments)
	case domain.OutcomeSkipped:
		cmd.Printf("  %s %s skipped: %s\n", warning("!"), o.FileName, o.Error)
	default:
		cmd.Printf("  %s %s failed: %s\n", failure("✗"), o.FileName, o.Error)
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestionCoordinator == nil {
		return errors.New("ingestion service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ingestionCoordinator.Upload(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	cmd.Printf("Uploaded %s\n%s\n", filepath.Base(path), out)
	return nil
}
