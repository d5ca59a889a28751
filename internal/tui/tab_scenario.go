package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/tui/components"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// scenarioTableOverhead is the card chrome plus the header block above the table.
const scenarioTableOverhead = 9

func (a App) newRecordTable(o model.Outcome, cw, ch int) table.Model {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	monthW := 7
	rest := components.LayoutRow(inner-monthW-10, 4)
	columns := []table.Column{
		{Title: "Month", Width: monthW},
		{Title: "Income", Width: rest[0]},
		{Title: "Expenses", Width: rest[1]},
		{Title: "Balance", Width: rest[2]},
		{Title: "Reserve", Width: rest[3]},
	}

	rows := make([]table.Row, 0, len(o.Result.Records))
	for _, rec := range o.Result.Records {
		rows = append(rows, table.Row{
			strconv.Itoa(rec.Month),
			cli.FormatCurrency(rec.Income, a.currency),
			cli.FormatCurrency(rec.Expenses, a.currency),
			cli.FormatCurrency(rec.Balance, a.currency),
			cli.FormatCurrency(rec.Reserve, a.currency),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.Accent).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceBright).
		Bold(false)

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, ch-scenarioTableOverhead)),
		table.WithWidth(inner),
	)
	tbl.SetStyles(styles)
	return tbl
}

func (a App) renderScenarioTab(idx, cw int) string {
	t := theme.Active
	if idx < 0 || idx >= len(a.outcomes) || idx >= len(a.tables) {
		return ""
	}
	o := a.outcomes[idx]
	res := o.Result

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder

	b.WriteString(labelStyle.Render("Income "))
	b.WriteString(valueStyle.Render(cli.FormatCurrency(o.Inputs.MonthlyIncome(), a.currency)))
	b.WriteString(labelStyle.Render("   Expenses "))
	b.WriteString(valueStyle.Render(cli.FormatCurrency(o.Inputs.MonthlyExpenses(), a.currency)))
	b.WriteString(labelStyle.Render("   Balance "))
	b.WriteString(valueStyle.Render(cli.FormatCurrency(o.Inputs.MonthlyIncome().Sub(o.Inputs.MonthlyExpenses()), a.currency)))
	b.WriteString(labelStyle.Render(" / month"))
	b.WriteString("\n")

	verdictStyle := lipgloss.NewStyle().Background(t.Surface).Bold(true)
	if res.GoalReached {
		b.WriteString(verdictStyle.Foreground(t.Green).Render(
			fmt.Sprintf("Goal reached in %s", cli.FormatMonths(res.MonthsToGoal))))
	} else {
		b.WriteString(verdictStyle.Foreground(t.Red).Render(
			fmt.Sprintf("Goal not reached within %d months", o.Inputs.MaxMonths)))
	}
	b.WriteString(spaceStyle.Render("  "))
	b.WriteString(labelStyle.Render("final reserve "))
	b.WriteString(valueStyle.Render(cli.FormatCurrency(res.FinalReserve, a.currency)))
	b.WriteString("\n\n")

	inner := components.CardInnerWidth(cw)
	pct := cli.GoalProgress(res.FinalReserve, o.Inputs.Target)
	b.WriteString(components.GoalBar("Goal", pct, cli.FormatCurrency(o.Inputs.Target, a.currency), 5, max(10, inner-40)))
	b.WriteString("\n\n")

	b.WriteString(a.tables[idx].View())

	return components.ContentCard(o.Kind.String()+" scenario", b.String(), cw)
}
