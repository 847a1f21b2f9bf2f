// Command outline edits the outline trees of documents from the terminal,
// a TUI, or an MCP client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/outline-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/core/services"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters behind the CLI.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	busCtx, cancelBus := context.WithCancel(ctx)
	bus := eventbus.New(64)
	eventbus.RegisterDebugLogger(bus, logger.Component("eventbus"))
	go bus.Start(busCtx)

	return &cli.Services{
		Documents:    store.DocumentStore(),
		Settings:     services.NewSettingsService(configStore),
		Flattener:    services.NewBookmarkService(),
		Bus:          bus,
		DatabasePath: store.Path(),
		Close: func() error {
			cancelBus()
			return store.Close()
		},
	}, nil
}
