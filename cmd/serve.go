package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/server"
	"github.com/theirongolddev/budgetview/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr     string
	flagServeDB       string
	flagServeReadOnly bool
	flagServeNoSeed   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budget API from a local SQLite database",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringVar(&flagServeDB, "db", "", "SQLite database path (default from config)")
	serveCmd.Flags().BoolVar(&flagServeReadOnly, "read-only", false, "Disable the write endpoints")
	serveCmd.Flags().BoolVar(&flagServeNoSeed, "no-seed", false, "Do not seed an empty database with sample categories")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(bootLogger())
	logger := newLogger(os.Stderr, cfg)

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	db, err := openStore(cfg, flagServeDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !flagServeNoSeed {
		seeded, err := db.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		if seeded {
			logger.Info("seeded empty database", "categories", len(store.DefaultSlices))
		}
	}

	srv := server.New(server.Config{
		Addr:     addr,
		Logger:   logger,
		ReadOnly: cfg.Server.ReadOnly || flagServeReadOnly,
	}, db)

	fmt.Printf("  budgetview API listening on http://%s\n", addr)
	fmt.Printf("  Budget:  http://%s/budget\n", addr)
	fmt.Printf("  Status:  http://%s/v1/status\n", addr)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStore opens the budget database at override, or the configured path.
func openStore(cfg config.Config, override string) (*store.Store, error) {
	path := override
	if path == "" {
		path = config.DBPath(cfg)
	}
	return store.Open(path)
}
