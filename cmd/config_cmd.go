package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/budgetview/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Output dir: %s\n", outputDir(cfg))
	fmt.Printf("    Log level:  %s\n", cfg.General.LogLevel)
	fmt.Printf("    Log file:   %s\n", config.LogPath())
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s", apiURL(cfg))
	switch {
	case flagAPIURL != "":
		fmt.Print("  (--api-url)")
	case os.Getenv(config.APIURLEnv) != "":
		fmt.Printf("  ($%s)", config.APIURLEnv)
	}
	fmt.Println()
	fmt.Printf("    Timeout:  %s\n", config.APITimeout(cfg))
	fmt.Println()

	w, h := config.ChartSize(cfg)
	fmt.Println("  [Chart]")
	fmt.Printf("    Surface: %dx%d\n", w, h)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:   %s\n", cfg.Server.Addr)
	fmt.Printf("    Database:  %s\n", config.DBPath(cfg))
	fmt.Printf("    Read-only: %v\n", cfg.Server.ReadOnly)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `budgetview setup` to reconfigure.")
	return nil
}
