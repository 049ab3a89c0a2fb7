package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the message boundary to a rendering surface",
	Long: `Serves the discriminant-tagged message protocol that editor panels and
other rendering surfaces speak.

By default a websocket server is started; every connection gets its own
prompt refinement session. With --stdio, newline-delimited JSON messages
are read from stdin and replies written to stdout.

Examples:
  artisan serve
  artisan serve --addr 127.0.0.1:9000
  artisan serve --stdio`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr  string
	serveStdio bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Websocket listen address (default from ARTISAN_SERVE_ADDR)")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Use JSON lines over stdin/stdout instead of a websocket")
	rootCmd.AddCommand(serveCmd)
}

// boundaryPorts builds the ports for one boundary session.
func boundaryPorts() boundary.Ports {
	return boundary.Ports{
		Refinement: refinementFactory()(),
		Ingestion:  ingestionCoordinator,
		Documents:  documentService,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if refinementCoordinator == nil && newRefinement == nil {
		return errors.New("refinement service not configured")
	}

	ctx := cmd.Context()
	startConfigWatch(ctx)

	if serveStdio {
		release := acquireTerminal()
		defer release()
		return boundary.ServeLines(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), boundaryPorts())
	}

	addr := serveAddr
	if addr == "" {
		addr = defaultServeAddr
	}
	cmd.Printf("Boundary listening on ws://%s%s\n", addr, boundary.WebSocketPath)
	return boundary.NewWebSocketHandler(boundaryPorts).ListenAndServe(ctx, addr)
}
