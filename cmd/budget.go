package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetview/internal/cli"
	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/store"

	"github.com/spf13/cobra"
)

var flagBudgetDB string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Edit the categories in the local budget database",
	RunE:  runBudgetList,
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <title> <amount>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetAdd,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <title> <amount>",
	Short: "Change a category's budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetSet,
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm <title>",
	Aliases: []string{"delete"},
	Short:   "Remove a category",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRm,
}

func init() {
	budgetCmd.PersistentFlags().StringVar(&flagBudgetDB, "db", "", "SQLite database path (default from config)")
	budgetCmd.AddCommand(budgetListCmd, budgetAddCmd, budgetSetCmd, budgetRmCmd)
	rootCmd.AddCommand(budgetCmd)
}

func openBudgetStore() (*store.Store, error) {
	return openStore(loadConfig(bootLogger()), flagBudgetDB)
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	db, err := openBudgetStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, err := db.List(cmd.Context())
	if err != nil {
		return err
	}

	slices := make([]model.BudgetSlice, len(entries))
	for i, e := range entries {
		slices[i] = e.Slice()
	}
	ds, err := model.NewDataset(slices)
	if err != nil {
		return err
	}

	t := cli.BudgetTable(ds)
	t.Title = fmt.Sprintf("%d categories", len(entries))
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}

func runBudgetAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	db, err := openBudgetStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	e, err := db.Add(cmd.Context(), model.BudgetSlice{Title: args[0], Budget: amount})
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderKV("added", fmt.Sprintf("%s (%s)", e.Title, cli.FormatAmount(e.Budget))))
	return nil
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	db, err := openBudgetStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.SetBudget(cmd.Context(), args[0], amount); err != nil {
		return err
	}
	fmt.Println(cli.RenderKV("updated", fmt.Sprintf("%s (%s)", args[0], cli.FormatAmount(amount))))
	return nil
}

func runBudgetRm(cmd *cobra.Command, args []string) error {
	db, err := openBudgetStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println(cli.RenderKV("removed", args[0]))
	return nil
}

// parseAmount parses a non-negative budget, tolerating thousands separators.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return v, nil
}
