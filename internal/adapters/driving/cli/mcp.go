package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose artisan to AI assistants over MCP",
	Long: `Runs an MCP server offering the tools optimize_prompt, answer_questions,
ingest_files, list_documents, document_chunks and delete_chunk, plus the
stored documents as resources.

The server speaks JSON-RPC over stdin/stdout unless --port or --addr is
given. Over stdio nothing can be asked interactively, so the service
address must already be configured.

Examples:
  artisan mcp serve
  artisan mcp serve --port 8080
  artisan mcp serve --addr 127.0.0.1:8080

Assistant configuration:
  {"mcpServers": {"artisan": {"command": "artisan", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var (
	mcpPort int
	mcpAddr string
)

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "Serve streamable HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "Serve streamable HTTP on this address instead of stdio")
	mcpServeCmd.MarkFlagsMutuallyExclusive("port", "addr")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpListenAddr is the HTTP address asked for, or "" for stdio.
func mcpListenAddr() string {
	if mcpAddr != "" {
		return mcpAddr
	}
	if mcpPort > 0 {
		return fmt.Sprintf(":%d", mcpPort)
	}
	return ""
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if refinementCoordinator == nil && newRefinement == nil {
		return errors.New("refinement service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Refinement: refinementFactory()(),
		Ingestion:  ingestionCoordinator,
		Documents:  documentService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	startConfigWatch(ctx)

	addr := mcpListenAddr()
	if addr == "" {
		release := acquireTerminal()
		defer release()
		return server.Run(ctx)
	}
	cmd.Printf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
