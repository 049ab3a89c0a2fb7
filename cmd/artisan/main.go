// Command artisan is the command line client of the artisan service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/config/env"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/prompt"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driving"
	"github.com/custodia-labs/artisan-cli/internal/core/services"
	"github.com/custodia-labs/artisan-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := env.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	logger.SetVerbose(cfg.Verbose)

	store, err := file.NewConfigStore(cfg.Home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	terminal := prompt.NewTerminal()
	endpoints := services.NewEndpointService(store, terminal)
	transport := api.NewClient(endpoints, api.Config{
		RequestsPerSecond: store.GetFloat("transport.requests_per_second"),
	})

	var history driven.IngestionHistory
	if cfg.History {
		dataDir := ""
		if cfg.Home != "" {
			dataDir = filepath.Join(cfg.Home, "data")
		}
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			logger.Warn("Ingestion history disabled: %v", err)
		} else {
			defer db.Close()
			history = db.History()
		}
	}

	documents, err := services.NewDocumentService(transport, cfg.CacheSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Endpoint:   endpoints,
		Refinement: services.NewRefinementService(transport, endpoints),
		Ingestion:  services.NewIngestionService(transport, store, history),
		Documents:  documents,
		NewRefinement: func() driving.RefinementCoordinator {
			return services.NewRefinementService(transport, endpoints)
		},
		WatchConfig: func(ctx context.Context) {
			changes, err := file.NewWatcher(store).Watch(ctx)
			if err != nil {
				logger.Warn("Live config reload disabled: %v", err)
				return
			}
			go func() {
				for range changes {
					endpoints.Invalidate()
				}
			}()
		},
		HoldTerminal: terminal.Detach,
		ServeAddr:    cfg.ServeAddr,
	})

	return cli.Execute(ctx)
}
