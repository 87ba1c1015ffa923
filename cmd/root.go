// Package cmd implements the budgetview CLI commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/budgetview/internal/cli"
	"github.com/theirongolddev/budgetview/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagAPIURL  string
	flagOutDir  string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "budgetview",
	Short: "Budget distribution charts, rendered two ways",
	Long: "Fetch a budget breakdown from a budget server and chart it with a retained\n" +
		"(go-chart PNG) and a declarative (SVG scene) backend side by side.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Budget server URL (overrides config and $"+config.APIURLEnv+")")
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "out-dir", "o", "", "Directory for rendered charts")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

// loadConfig reads the config file, falling back to defaults with a warning
// when it cannot be parsed.
func loadConfig(logger *slog.Logger) config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using default config", "path", config.ConfigPath(), "error", err)
	}
	return cfg
}

// apiURL resolves the budget server URL: flag, then env, then config.
func apiURL(cfg config.Config) string {
	if flagAPIURL != "" {
		return flagAPIURL
	}
	return config.APIBaseURL(cfg)
}

// outputDir resolves where charts are written: flag, then config.
func outputDir(cfg config.Config) string {
	if flagOutDir != "" {
		return flagOutDir
	}
	return config.OutputDir(cfg)
}

// newLogger builds the command logger. --quiet and --verbose win over the
// configured level.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := parseLevel(cfg.General.LogLevel)
	switch {
	case flagQuiet:
		level = slog.LevelError
	case flagVerbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// bootLogger logs config loading before the configured level is known.
func bootLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
