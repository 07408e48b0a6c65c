package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/config"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/logging"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

// Exit codes of the allocate command
const (
	ExitOK          = 0
	ExitError       = 1
	ExitUnfulfilled = 2
)

// IO bundles the streams a command reads from and writes to.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunAllocate reads a request, allocates it and prints the shipments.
// It returns ExitUnfulfilled when the order cannot be met.
func RunAllocate(ctx context.Context, cfg *config.Config, flags AllocateFlags, streams IO) (int, error) {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerTo(streams.Stderr, loggingCfg).With(slog.String("system", "cli"))

	input, err := LoadInput(flags.Input, streams.Stdin)
	if err != nil {
		return ExitError, err
	}
	logger.Debug("loaded allocation request",
		slog.String("input", flags.Input),
		slog.Int("items", len(input.Order)),
		slog.Int("warehouses", len(input.Warehouses)))

	// History is only opened when asked for so a plain run never touches disk
	var repo storage.Repository
	if flags.Record {
		store, err := storage.NewStorage(cfg.Storage.DatabasePath, logger)
		if err != nil {
			return ExitError, err
		}
		defer func() { _ = store.Close() }()
		repo = store
	}

	svc := service.NewAllocationService(repo, logger)
	result, err := svc.Allocate(ctx, service.Request{
		Order:      input.Order,
		Warehouses: input.Warehouses,
		Compact:    flags.Compact,
		Record:     flags.Record,
		Source:     storage.SourceCLI,
	})
	if err != nil {
		return ExitError, err
	}

	if flags.JSON {
		if err := PrintJSON(streams.Stdout, result); err != nil {
			return ExitError, err
		}
	} else {
		PrintResult(streams.Stdout, result)
	}

	if !result.Fulfilled {
		return ExitUnfulfilled, nil
	}
	return ExitOK, nil
}
