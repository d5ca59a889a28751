package projection

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/reserva/internal/model"
)

// Entry validation errors. They belong to the presentation surfaces and are
// checked before any scenario runs; the engine itself never returns them.
var (
	ErrMissingTarget = errors.New("enter a savings goal greater than zero")
	ErrNoIncome      = errors.New("enter at least one source of income")
	ErrNoExpense     = errors.New("enter at least one kind of expense")
)

// ValidateEntries reports every problem with the entries at once.
// Income and expense checks use the variable midpoint.
func ValidateEntries(e model.Entries) error {
	var errs []error
	if !e.Target.IsPositive() {
		errs = append(errs, ErrMissingTarget)
	}
	if !e.FixedIncome.IsPositive() && !e.VariableIncome.Mid.IsPositive() {
		errs = append(errs, ErrNoIncome)
	}
	if !e.FixedExpenses.IsPositive() && !e.VariableExpenses.Mid.IsPositive() {
		errs = append(errs, ErrNoExpense)
	}
	if e.MaxMonths < 1 {
		errs = append(errs, fmt.Errorf("%w: max months must be at least 1", ErrInvalidConfiguration))
	}
	if e.MaxMonths > model.MaxMonthsLimit {
		errs = append(errs, fmt.Errorf("%w: max months must be at most %d", ErrInvalidConfiguration, model.MaxMonthsLimit))
	}
	return errors.Join(errs...)
}

// DeriveScenarios pairs the variable extremes into the three scenarios:
// pessimistic takes the lowest income and highest spending, optimistic the
// reverse, realistic both midpoints. Fixed amounts and the target are shared.
func DeriveScenarios(e model.Entries) []model.Scenario {
	base := model.Inputs{
		FixedIncome:   e.FixedIncome,
		FixedExpenses: e.FixedExpenses,
		Target:        e.Target,
		MaxMonths:     e.MaxMonths,
	}

	out := make([]model.Scenario, 0, len(model.ScenarioKinds))
	for _, kind := range model.ScenarioKinds {
		in := base
		switch kind {
		case model.Pessimistic:
			in.VariableIncome = e.VariableIncome.Min
			in.VariableExpenses = e.VariableExpenses.Max
		case model.Realistic:
			in.VariableIncome = e.VariableIncome.Mid
			in.VariableExpenses = e.VariableExpenses.Mid
		case model.Optimistic:
			in.VariableIncome = e.VariableIncome.Max
			in.VariableExpenses = e.VariableExpenses.Min
		}
		out = append(out, model.Scenario{Kind: kind, Inputs: in})
	}
	return out
}

// RunScenarios projects every derived scenario in order.
func RunScenarios(e model.Entries) ([]model.Outcome, error) {
	scenarios := DeriveScenarios(e)
	outcomes := make([]model.Outcome, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := Project(sc.Inputs)
		if err != nil {
			return nil, fmt.Errorf("%s scenario: %w", sc.Kind, err)
		}
		outcomes = append(outcomes, model.Outcome{Kind: sc.Kind, Inputs: sc.Inputs, Result: res})
	}
	return outcomes, nil
}

// Summarize builds the comparison rows. Final reserves are rounded to cents.
func Summarize(outcomes []model.Outcome) []model.SummaryRow {
	rows := make([]model.SummaryRow, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, model.SummaryRow{
			Scenario:     o.Kind,
			MonthsToGoal: o.Result.MonthsToGoal,
			FinalReserve: o.Result.FinalReserve.Round(2),
		})
	}
	return rows
}
