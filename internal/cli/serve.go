package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shopdash/internal/repos"
	"shopdash/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var noSeed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until SIGINT or SIGTERM.

Outside production an empty database is filled with demo data first,
unless --no-seed is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, noSeed)
		},
	}
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not load demo data into an empty database")
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, noSeed bool) error {
	cfg := opts.Config

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if !noSeed && !cfg.Production() {
		if err := repos.SeedIfEmpty(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	app := server.New(cfg, db)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
