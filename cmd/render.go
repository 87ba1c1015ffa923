package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/budgetview/internal/budgetapi"
	"github.com/theirongolddev/budgetview/internal/cli"
	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/host"
	"github.com/theirongolddev/budgetview/internal/panel"
	"github.com/theirongolddev/budgetview/internal/watch"

	"github.com/spf13/cobra"
)

var (
	flagRenderWidth    int
	flagRenderHeight   int
	flagRenderWatch    bool
	flagRenderWatchDB  string
	flagRenderDebounce time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch the budget once and write both charts",
	Long: "Fetch the budget, print the breakdown and write retained.png and declarative.svg.\n" +
		"With --watch, re-render whenever the local budget database changes.",
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&flagRenderWidth, "width", 0, "Surface width in pixels (default from config)")
	renderCmd.Flags().IntVar(&flagRenderHeight, "height", 0, "Surface height in pixels (default from config)")
	renderCmd.Flags().BoolVarP(&flagRenderWatch, "watch", "w", false, "Re-render when the budget database changes")
	renderCmd.Flags().StringVar(&flagRenderWatchDB, "db", "", "Database to watch (default from config)")
	renderCmd.Flags().DurationVar(&flagRenderDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(bootLogger())
	logger := newLogger(os.Stderr, cfg)

	w, h := config.ChartSize(cfg)
	if flagRenderWidth > 0 {
		w = flagRenderWidth
	}
	if flagRenderHeight > 0 {
		h = flagRenderHeight
	}

	client := budgetapi.NewClient(apiURL(cfg), config.APITimeout(cfg))
	hst := host.New(client, w, h, logger)
	defer hst.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := outputDir(cfg)
	err := renderOnce(ctx, hst, client.BaseURL(), dir, logger)
	if !flagRenderWatch {
		return err
	}
	if err != nil {
		logger.Error("render failed", "error", err)
	}

	db := flagRenderWatchDB
	if db == "" {
		db = config.DBPath(cfg)
	}
	logger.Info("watching for budget changes", "db", db, "api", client.BaseURL())
	return watch.File(ctx, db, flagRenderDebounce, logger, func() {
		if err := renderOnce(ctx, hst, client.BaseURL(), dir, logger); err != nil {
			logger.Error("render failed", "error", err)
		}
	})
}

// renderOnce runs one panel activation to completion and exports the result.
func renderOnce(ctx context.Context, hst *host.Host, api, dir string, logger *slog.Logger) error {
	if err := hst.Load(ctx); err != nil {
		return err
	}
	p := hst.Panel
	if p.State() != panel.Ready {
		return fmt.Errorf("fetching budget from %s: %w", api, p.Err())
	}

	if !flagQuiet {
		fmt.Println()
		fmt.Println(cli.RenderTitle("budgetview  " + api))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.BudgetTable(p.Dataset())))
	}

	snap, err := hst.Snapshot()
	if err != nil {
		return err
	}
	paths, err := snap.Write(dir)
	if err != nil {
		return err
	}
	logger.Debug("charts written", "dir", dir, "files", len(paths))
	if !flagQuiet {
		fmt.Println()
		for _, path := range paths {
			fmt.Println(cli.RenderKV("wrote", path))
		}
	}
	return nil
}
