package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig(bootLogger())
	vals := tui.SetupValuesFrom(cfg)

	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}
	if !vals.Confirm {
		fmt.Println("  Nothing saved.")
		return nil
	}

	vals.Apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `budgetview` to open the dashboard.")
	return nil
}
