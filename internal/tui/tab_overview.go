package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/tui/components"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw, ch int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: one card per scenario
	metrics := make([]components.Metric, 0, len(a.outcomes))
	for i, row := range projection.Summarize(a.outcomes) {
		o := a.outcomes[i]
		metrics = append(metrics, components.Metric{
			Label:  row.Scenario.String(),
			Value:  cli.FormatMonths(row.MonthsToGoal),
			Detail: "final " + cli.FormatCurrency(row.FinalReserve, a.currency),
			Accent: t.Scenario(row.Scenario),
			Footer: components.Sparkline(o.Result.ReserveSeries(), t.Scenario(row.Scenario)),
		})
	}
	cards := components.MetricCardRow(metrics, cw)
	b.WriteString(cards)
	b.WriteString("\n")

	// Row 2: overlay chart
	chartH := ch - lipgloss.Height(cards) - 3
	if a.isCompactLayout() {
		chartH = min(chartH, 12)
	}
	chartH = max(chartH, 8)
	title := fmt.Sprintf("Cumulative reserve (goal %s)", cli.FormatCurrency(a.entries.Target, a.currency))
	b.WriteString(components.ContentCard(
		title,
		components.ReserveChart(a.outcomes, a.entries.Target.InexactFloat64(), components.CardInnerWidth(cw), chartH),
		cw,
	))

	return b.String()
}
