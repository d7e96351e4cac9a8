package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/easel/internal/archive"
	"github.com/jonathan/easel/internal/config"
	"github.com/jonathan/easel/internal/db"
	"github.com/jonathan/easel/internal/logging"
	"github.com/jonathan/easel/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session bundles what every command needs after flag parsing
type session struct {
	cfg     config.Config
	logger  *zap.Logger
	out     io.Writer
	printer *observability.Printer
	ledger  *db.DB
}

// loadSession resolves the effective configuration and builds the logger.
// The --log-level flag wins over config and environment.
func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	return &session{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		printer: observability.NewPrinter(out),
	}, nil
}

// openLedger connects to the archive ledger when a database URL is configured.
// A failed connection is reported and the command continues without it.
func (rt *session) openLedger(ctx context.Context) {
	if rt.cfg.DatabaseURL == "" {
		return
	}

	ledger, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		_, _ = fmt.Fprintf(rt.out, "Warning: Failed to connect to database: %v\n", err)
		_, _ = fmt.Fprintf(rt.out, "Continuing without the archive ledger...\n")
		return
	}
	if err := ledger.EnsureSchema(ctx); err != nil {
		ledger.Close()
		_, _ = fmt.Fprintf(rt.out, "Warning: %v\n", err)
		_, _ = fmt.Fprintf(rt.out, "Continuing without the archive ledger...\n")
		return
	}

	rt.logger.Debug("connected to archive ledger")
	rt.ledger = ledger
}

// recorder returns the ledger as an archive.Recorder, or nil without one.
func (rt *session) recorder() archive.Recorder {
	if rt.ledger == nil {
		return nil
	}
	return rt.ledger
}

func (rt *session) close() {
	if rt.ledger != nil {
		rt.ledger.Close()
	}
	_ = rt.logger.Sync()
}
