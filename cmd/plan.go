package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/source"

	"github.com/spf13/cobra"
)

const defaultPlanPath = "reserva.yaml"

var flagPlanForce bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage YAML plan files",
}

var planInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a plan file from the current flags",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanInit,
}

var planCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a plan file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanCheck,
}

func init() {
	planInitCmd.Flags().BoolVar(&flagPlanForce, "force", false, "Overwrite an existing file")
	planCmd.AddCommand(planInitCmd)
	planCmd.AddCommand(planCheckCmd)
	rootCmd.AddCommand(planCmd)
}

func planPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultPlanPath
}

func runPlanInit(cmd *cobra.Command, args []string) error {
	path := planPath(args)
	if _, err := os.Stat(path); err == nil && !flagPlanForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	plan, err := resolvePlan(cmd)
	if err != nil {
		return err
	}
	if plan.MaxMonths == 0 {
		plan.MaxMonths = cfg.General.MaxMonths
	}
	if err := source.SavePlan(path, plan); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  Wrote %s\n", path)
		if err := projection.ValidateEntries(plan.Entries(cfg.General.MaxMonths)); err != nil {
			fmt.Printf("  Still missing:\n")
			printProblems(err)
		}
	}
	return nil
}

func runPlanCheck(_ *cobra.Command, args []string) error {
	path := planPath(args)
	plan, err := source.LoadPlan(path)
	if err != nil {
		return err
	}
	entries := plan.Entries(cfg.General.MaxMonths)
	if err := projection.ValidateEntries(entries); err != nil {
		printProblems(err)
		return fmt.Errorf("%s is incomplete", path)
	}
	fmt.Printf("  %s is valid\n", path)
	if !flagQuiet {
		for _, line := range entryLines(entries) {
			fmt.Printf("    %s\n", line)
		}
	}
	return nil
}

// entryLines describes resolved entries the way the projection will see them.
func entryLines(e model.Entries) []string {
	return []string{
		"Fixed income       " + money(e.FixedIncome),
		"Variable income    " + formatRange(e.VariableIncome),
		"Fixed expenses     " + money(e.FixedExpenses),
		"Variable expenses  " + formatRange(e.VariableExpenses),
		"Target             " + money(e.Target),
		fmt.Sprintf("Month cap          %d", e.MaxMonths),
	}
}

func formatRange(r model.Range) string {
	if r.IsSingle() {
		return money(r.Mid)
	}
	return fmt.Sprintf("%s to %s (mid %s)", money(r.Min), money(r.Max), money(r.Mid))
}

// printProblems lists each error joined into err on its own line.
func printProblems(err error) {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			fmt.Printf("    - %s\n", e)
		}
		return
	}
	fmt.Printf("    - %s\n", err)
}
