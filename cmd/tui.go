package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/tui"
	"github.com/theirongolddev/budgetview/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagNoExport bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard (default)",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagNoExport, "no-export", false, "Do not write chart files on each load")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(bootLogger())
	theme.SetActive(cfg.Appearance.Theme)

	// The alt screen owns stdout and stderr, so the dashboard logs to a file.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	w, h := config.ChartSize(cfg)
	opts := tui.Options{
		APIURL:      apiURL(cfg),
		APITimeout:  config.APITimeout(cfg),
		ChartWidth:  w,
		ChartHeight: h,
		OutputDir:   outputDir(cfg),
		Logger:      logger,
		NeedSetup:   !config.Exists(),
	}
	if flagNoExport {
		opts.OutputDir = ""
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Err() != nil {
		logger.Error("dashboard stopped", "error", a.Err())
		return a.Err()
	}
	return nil
}

func openLogFile() (*os.File, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	//nolint:gosec // log path is derived from the user's config dir
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
