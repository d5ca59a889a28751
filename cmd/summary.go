package cmd

import (
	"fmt"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/projection"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Scenario comparison with progress toward the goal",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	entries, outcomes, err := runScenarios(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIO SUMMARY  Goal %s", money(entries.Target))))
	fmt.Println()

	summary := projection.Summarize(outcomes)
	rows := make([][]string, 0, len(summary)+2)
	for i, s := range summary {
		o := outcomes[i]
		rows = append(rows, []string{
			s.Scenario.String(),
			money(o.Inputs.MonthlyIncome().Sub(o.Inputs.MonthlyExpenses())),
			cli.FormatMonths(s.MonthsToGoal),
			money(s.FinalReserve),
			cli.RenderProgressBar(cli.GoalProgress(s.FinalReserve, entries.Target), 20),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Scenario", "Balance/month", "Months to goal", "Final reserve", "Progress"},
		Rows:    rows,
	}))

	fmt.Printf("  %s\n\n", cli.RenderMuted(fmt.Sprintf("Projected over at most %d months.", entries.MaxMonths)))
	return nil
}
