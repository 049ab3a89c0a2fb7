package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List and delete stored documents, and view or delete their chunks.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Show the chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentCollectionCmd = &cobra.Command{
	Use:   "collection [name]",
	Short: "Show the stored entries of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentCollection,
}

var documentDeleteChunkCmd = &cobra.Command{
	Use:   "delete-chunk [chunk-id]",
	Short: "Delete a single chunk",
	Long:  `Deletes a chunk by ID. Deleting an ID that does not exist is reported as an error.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDeleteChunk,
}

// chunkPreview is the --preview flag: characters of content to show.
var chunkPreview int

func init() {
	documentChunksCmd.Flags().IntVar(&chunkPreview, "preview", 200, "Characters of chunk content to show (0 = all)")
	documentCollectionCmd.Flags().IntVar(&chunkPreview, "preview", 200, "Characters of chunk content to show (0 = all)")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentCollectionCmd)
	documentCmd.AddCommand(documentDeleteChunkCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for _, doc := range docs {
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Name: %s\n", doc.Name)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	if err := documentService.DeleteDocument(cmd.Context(), docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	chunks, err := documentService.DocumentChunks(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Printf("No chunks found for document: %s\n", docID)
		return nil
	}

	cmd.Printf("Chunks of document %s:\n\n", docID)
	printChunks(cmd, chunks)
	return nil
}

func runDocumentCollection(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	collection := args[0]
	entries, err := documentService.CollectionDocuments(cmd.Context(), collection)
	if err != nil {
		return fmt.Errorf("failed to list collection: %w", err)
	}

	if len(entries) == 0 {
		cmd.Printf("No entries found in collection: %s\n", collection)
		return nil
	}

	cmd.Printf("Entries in collection %s:\n\n", collection)
	printChunks(cmd, entries)
	return nil
}

func runDocumentDeleteChunk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunkID := args[0]
	if err := documentService.DeleteChunk(cmd.Context(), chunkID); err != nil {
		return fmt.Errorf("failed to delete chunk: %w", err)
	}

	cmd.Printf("Chunk %s deleted.\n", chunkID)
	return nil
}

func printChunks(cmd *cobra.Command, chunks []domain.ChunkRecord) {
	for _, c := range chunks {
		cmd.Printf("  %s\n", bold(c.ID))
		cmd.Printf("    %s\n", preview(c.Content, chunkPreview))
		if len(c.Metadata) > 0 {
			keys := make([]string, 0, len(c.Metadata))
			for k := range c.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				cmd.Printf("    %s %v\n", faint(k+":"), c.Metadata[k])
			}
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
}

// preview flattens whitespace and truncates to limit runes.
func preview(content string, limit int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if limit <= 0 || len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}
