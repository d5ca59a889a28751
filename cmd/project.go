package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagJSON bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Month-by-month projection for every scenario",
	RunE:  runProject,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, projectCmd} {
		c.Flags().BoolVar(&flagJSON, "json", false, "Print outcomes and summary as JSON")
	}
	rootCmd.AddCommand(projectCmd)
}

// projectionOutput is the --json document.
type projectionOutput struct {
	Target   decimal.Decimal    `json:"target"`
	Outcomes []model.Outcome    `json:"outcomes"`
	Summary  []model.SummaryRow `json:"summary"`
}

func runProject(cmd *cobra.Command, _ []string) error {
	entries, outcomes, err := runScenarios(cmd)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(projectionOutput{
			Target:   entries.Target,
			Outcomes: outcomes,
			Summary:  projection.Summarize(outcomes),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SAVINGS PROJECTION  Goal %s", money(entries.Target))))
	fmt.Println()

	for _, o := range outcomes {
		fmt.Print(cli.RenderTable(recordTable(o)))
		fmt.Printf("  %s\n\n", cli.RenderVerdict(o.Result.GoalReached, verdictText(o)))
	}

	fmt.Print(cli.RenderTable(comparisonTable(outcomes)))

	if chart := reserveChart(outcomes, entries.Target); chart != "" {
		fmt.Println("  Cumulative reserve")
		fmt.Println()
		fmt.Print(indent(chart))
		fmt.Println()
	}
	return nil
}

func money(d decimal.Decimal) string {
	return cli.FormatCurrency(d, cfg.Currency)
}

func recordTable(o model.Outcome) cli.Table {
	rows := make([][]string, 0, len(o.Result.Records))
	for _, r := range o.Result.Records {
		rows = append(rows, []string{
			strconv.Itoa(r.Month),
			money(r.Income),
			money(r.Expenses),
			money(r.Balance),
			money(r.Reserve),
		})
	}
	return cli.Table{
		Title:   o.Kind.String() + " scenario",
		Headers: []string{"Month", "Income", "Expenses", "Balance", "Reserve"},
		Rows:    rows,
	}
}

func verdictText(o model.Outcome) string {
	if o.Result.GoalReached {
		return "Goal reached in " + cli.FormatMonths(o.Result.MonthsToGoal)
	}
	return fmt.Sprintf("Goal not reached within %d months (final reserve %s)",
		o.Inputs.MaxMonths, money(o.Result.FinalReserve))
}

func comparisonTable(outcomes []model.Outcome) cli.Table {
	summary := projection.Summarize(outcomes)
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{
			s.Scenario.String(),
			cli.FormatMonths(s.MonthsToGoal),
			money(s.FinalReserve),
		})
	}
	return cli.Table{
		Title:   "Scenario comparison",
		Headers: []string{"Scenario", "Months to reach goal", "Final reserve"},
		Rows:    rows,
	}
}

func reserveChart(outcomes []model.Outcome, goal decimal.Decimal) string {
	series := make([]cli.Series, 0, len(outcomes))
	for _, o := range outcomes {
		series = append(series, cli.Series{
			Name:   o.Kind.String(),
			Values: o.Result.ReserveSeries(),
			Color:  scenarioColor(o.Kind),
		})
	}
	return cli.RenderLineChart(series, goal.InexactFloat64(), 48, 12, func(v float64) string {
		return cli.FormatAmount(decimal.NewFromFloat(v), cfg.Currency)
	})
}

func scenarioColor(k model.ScenarioKind) lipgloss.Color {
	switch k {
	case model.Pessimistic:
		return cli.ColorRed
	case model.Optimistic:
		return cli.ColorGreen
	default:
		return cli.ColorBlue
	}
}

func indent(block string) string {
	lines := strings.SplitAfter(block, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(l)
	}
	return b.String()
}
