// Package cli provides the artisan command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services injected by main.
var (
	endpointResolver      driving.EndpointResolver
	refinementCoordinator driving.RefinementCoordinator
	ingestionCoordinator  driving.IngestionCoordinator
	documentService       driving.DocumentService

	// newRefinement builds a fresh coordinator for surfaces that serve
	// several independent sessions.
	newRefinement func() driving.RefinementCoordinator

	// watchConfig starts live config reloading for long-running commands.
	watchConfig func(ctx context.Context)

	// holdTerminal stops interactive prompts while a full-screen UI owns
	// the terminal.
	holdTerminal func() (release func())

	// defaultServeAddr is the listen address used when --addr is not given.
	defaultServeAddr = "127.0.0.1:7420"
)

// verbose is the --verbose flag.
var verbose bool

// Services bundles the driving ports the commands call.
type Services struct {
	Endpoint   driving.EndpointResolver
	Refinement driving.RefinementCoordinator
	Ingestion  driving.IngestionCoordinator
	Documents  driving.DocumentService

	// NewRefinement builds a fresh refinement coordinator. Optional; when
	// nil, Refinement is shared.
	NewRefinement func() driving.RefinementCoordinator

	// WatchConfig starts live config reloading until ctx ends. Optional.
	WatchConfig func(ctx context.Context)

	// HoldTerminal stops interactive prompts until release is called.
	// Optional.
	HoldTerminal func() (release func())

	// ServeAddr overrides the default listen address of the serve command.
	ServeAddr string
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	endpointResolver = s.Endpoint
	refinementCoordinator = s.Refinement
	ingestionCoordinator = s.Ingestion
	documentService = s.Documents
	newRefinement = s.NewRefinement
	watchConfig = s.WatchConfig
	holdTerminal = s.HoldTerminal
	if s.ServeAddr != "" {
		defaultServeAddr = s.ServeAddr
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "artisan",
	Short: "Prompt optimisation and document ingestion client",
	Long: `artisan talks to an artisan service running on InterSystems IRIS.

It refines prompts through clarifying questions, ingests documents into
RAG pipeline collections, and manages the stored documents and chunks.

The service address is taken from artisan.api_url in ~/.artisan/config.toml,
then the first intersystems.servers entry, then objectscript.conn, and
finally asked for interactively.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// refinementFactory returns a builder of per-session coordinators, falling
// back to the shared coordinator.
func refinementFactory() func() driving.RefinementCoordinator {
	if newRefinement != nil {
		return newRefinement
	}
	return func() driving.RefinementCoordinator { return refinementCoordinator }
}

// startConfigWatch enables live config reloading if main provided it.
func startConfigWatch(ctx context.Context) {
	if watchConfig != nil {
		watchConfig(ctx)
	}
}

// acquireTerminal keeps prompts off the terminal until release is called.
func acquireTerminal() (release func()) {
	if holdTerminal == nil {
		return func() {}
	}
	return holdTerminal()
}
