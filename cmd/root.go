// Package cmd implements the reserva CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/reserva/internal/config"
	"github.com/theirongolddev/reserva/internal/logging"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/source"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagFixedIncome      string
	flagVariableIncome   string
	flagFixedExpenses    string
	flagVariableExpenses string
	flagTarget           string
	flagMonths           int
	flagPlanFile         string
	flagQuiet            bool
	flagLogLevel         string
)

// Set by PersistentPreRunE before any command runs.
var (
	cfg config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "reserva",
	Short: "Savings reserve projection CLI",
	Long: "Project how many months it takes to build a savings reserve under\n" +
		"pessimistic, realistic and optimistic scenarios.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addEntryFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// addEntryFlags registers the plan entry flags as persistent flags on c.
func addEntryFlags(c *cobra.Command) {
	fs := c.PersistentFlags()
	fs.StringVar(&flagFixedIncome, "fixed-income", "", "Fixed monthly income")
	fs.StringVar(&flagVariableIncome, "variable-income", "", `Variable monthly income, single value or range ("600 a 1000")`)
	fs.StringVar(&flagFixedExpenses, "fixed-expenses", "", "Fixed monthly expenses")
	fs.StringVar(&flagVariableExpenses, "variable-expenses", "", `Variable monthly expenses, single value or range ("250 a 400")`)
	fs.StringVarP(&flagTarget, "target", "t", "", "Savings goal")
	fs.IntVarP(&flagMonths, "months", "m", 0, "Month cap (0 = config default)")
	fs.StringVarP(&flagPlanFile, "file", "f", "", "YAML plan file")
}

func loadRuntime(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	level := flagLogLevel
	if level == "" {
		level = cfg.General.LogLevel
	}
	log = logging.New(level, logging.Text)
	return nil
}

// resolvePlan merges the plan file (flag or config) with every entry flag
// that was set explicitly. Flags win.
func resolvePlan(cmd *cobra.Command) (source.Plan, error) {
	var plan source.Plan

	path := flagPlanFile
	if path == "" {
		path = cfg.General.PlanFile
	}
	if path != "" {
		p, err := source.LoadPlan(path)
		if err != nil {
			return plan, err
		}
		log.WithField("path", path).Debug("loaded plan file")
		plan = p
	}

	flags := cmd.Flags()
	override := func(name, value string, dst *source.Text) {
		if flags.Changed(name) {
			*dst = source.Text(value)
		}
	}
	override("fixed-income", flagFixedIncome, &plan.FixedIncome)
	override("variable-income", flagVariableIncome, &plan.VariableIncome)
	override("fixed-expenses", flagFixedExpenses, &plan.FixedExpenses)
	override("variable-expenses", flagVariableExpenses, &plan.VariableExpenses)
	override("target", flagTarget, &plan.Target)
	if flags.Changed("months") {
		plan.MaxMonths = flagMonths
	}
	return plan, nil
}

// resolveEntries returns validated entries ready for the scenarios.
func resolveEntries(cmd *cobra.Command) (model.Entries, error) {
	plan, err := resolvePlan(cmd)
	if err != nil {
		return model.Entries{}, err
	}
	entries := plan.Entries(cfg.General.MaxMonths)
	log.WithFields(logrus.Fields{
		"fixed_income":      entries.FixedIncome.String(),
		"variable_income":   entries.VariableIncome.Mid.String(),
		"fixed_expenses":    entries.FixedExpenses.String(),
		"variable_expenses": entries.VariableExpenses.Mid.String(),
		"target":            entries.Target.String(),
		"max_months":        entries.MaxMonths,
	}).Debug("resolved entries")

	if err := projection.ValidateEntries(entries); err != nil {
		return model.Entries{}, err
	}
	return entries, nil
}

// runScenarios resolves the entries and projects all three scenarios.
func runScenarios(cmd *cobra.Command) (model.Entries, []model.Outcome, error) {
	entries, err := resolveEntries(cmd)
	if err != nil {
		return entries, nil, err
	}
	outcomes, err := projection.RunScenarios(entries)
	if err != nil {
		return entries, nil, err
	}
	return entries, outcomes, nil
}
