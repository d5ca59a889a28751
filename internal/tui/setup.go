package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/source"

	"github.com/charmbracelet/huh"
)

// entryValues holds the raw form text so ranges like "600 a 1000" survive
// re-editing.
type entryValues struct {
	FixedIncome      string
	VariableIncome   string
	FixedExpenses    string
	VariableExpenses string
	Target           string
}

func valuesFromPlan(p source.Plan) entryValues {
	return entryValues{
		FixedIncome:      string(p.FixedIncome),
		VariableIncome:   string(p.VariableIncome),
		FixedExpenses:    string(p.FixedExpenses),
		VariableExpenses: string(p.VariableExpenses),
		Target:           string(p.Target),
	}
}

func (v entryValues) plan(maxMonths int) source.Plan {
	return source.Plan{
		FixedIncome:      source.Text(strings.TrimSpace(v.FixedIncome)),
		VariableIncome:   source.Text(strings.TrimSpace(v.VariableIncome)),
		FixedExpenses:    source.Text(strings.TrimSpace(v.FixedExpenses)),
		VariableExpenses: source.Text(strings.TrimSpace(v.VariableExpenses)),
		Target:           source.Text(strings.TrimSpace(v.Target)),
		MaxMonths:        maxMonths,
	}
}

func (v entryValues) entries(maxMonths int) model.Entries {
	return v.plan(maxMonths).Entries(maxMonths)
}

func validateTarget(s string) error {
	if !source.ParseAmount(s).IsPositive() {
		return errors.New("enter a goal greater than zero")
	}
	return nil
}

// newEntriesForm builds the huh form for the five entries. problem, when
// set, is shown above the fields after a failed validation.
func newEntriesForm(vals *entryValues, problem string) *huh.Form {
	intro := huh.NewNote().
		Title("Savings plan").
		Description("Variable amounts accept a range like 600 a 1000 or 600-1000.\nA comma works as the decimal separator.")
	if problem != "" {
		intro = intro.Description(problem)
	}

	return huh.NewForm(
		huh.NewGroup(
			intro,
			huh.NewInput().
				Title("Fixed monthly income").
				Placeholder("2500").
				Value(&vals.FixedIncome),
			huh.NewInput().
				Title("Variable monthly income").
				Placeholder("600 a 1000").
				Value(&vals.VariableIncome),
			huh.NewInput().
				Title("Fixed monthly expenses").
				Placeholder("1800").
				Value(&vals.FixedExpenses),
			huh.NewInput().
				Title("Variable monthly expenses").
				Placeholder("250 a 400").
				Value(&vals.VariableExpenses),
			huh.NewInput().
				Title("Savings goal").
				Placeholder("5000").
				Value(&vals.Target).
				Validate(validateTarget),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}
