package projection

import (
	"errors"
	"testing"

	"github.com/theirongolddev/reserva/internal/model"

	"github.com/shopspring/decimal"
)

func rangeOf(lo, hi int64) model.Range {
	low, high := dec(lo), dec(hi)
	return model.Range{Min: low, Mid: low.Add(high).Div(dec(2)), Max: high}
}

func sampleEntries() model.Entries {
	return model.Entries{
		FixedIncome:      dec(2500),
		VariableIncome:   rangeOf(600, 1000),
		FixedExpenses:    dec(1800),
		VariableExpenses: rangeOf(250, 400),
		Target:           dec(5000),
		MaxMonths:        24,
	}
}

func TestDeriveScenarios_PairsExtremes(t *testing.T) {
	scenarios := DeriveScenarios(sampleEntries())
	if len(scenarios) != 3 {
		t.Fatalf("scenarios = %d, want 3", len(scenarios))
	}

	tests := []struct {
		kind     model.ScenarioKind
		income   int64
		expenses string
	}{
		{model.Pessimistic, 600, "400"},
		{model.Realistic, 800, "325"},
		{model.Optimistic, 1000, "250"},
	}

	for i, tt := range tests {
		sc := scenarios[i]
		if sc.Kind != tt.kind {
			t.Fatalf("scenario %d kind = %s, want %s", i, sc.Kind, tt.kind)
		}
		if !sc.Inputs.VariableIncome.Equal(dec(tt.income)) {
			t.Errorf("%s variable income = %s, want %d", tt.kind, sc.Inputs.VariableIncome, tt.income)
		}
		if !sc.Inputs.VariableExpenses.Equal(decimal.RequireFromString(tt.expenses)) {
			t.Errorf("%s variable expenses = %s, want %s", tt.kind, sc.Inputs.VariableExpenses, tt.expenses)
		}
		if !sc.Inputs.FixedIncome.Equal(dec(2500)) || !sc.Inputs.FixedExpenses.Equal(dec(1800)) {
			t.Errorf("%s fixed amounts changed: %+v", tt.kind, sc.Inputs)
		}
		if !sc.Inputs.Target.Equal(dec(5000)) || sc.Inputs.MaxMonths != 24 {
			t.Errorf("%s target/cap changed: %+v", tt.kind, sc.Inputs)
		}
	}
}

func TestRunScenarios_OrdersByOutlook(t *testing.T) {
	outcomes, err := RunScenarios(sampleEntries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Monthly balances: 900, 1175, 1450.
	wantMonths := []int{6, 5, 4}
	for i, o := range outcomes {
		if !o.Result.GoalReached {
			t.Fatalf("%s: goal not reached", o.Kind)
		}
		if *o.Result.MonthsToGoal != wantMonths[i] {
			t.Errorf("%s: MonthsToGoal = %d, want %d", o.Kind, *o.Result.MonthsToGoal, wantMonths[i])
		}
	}
}

func TestRunScenarios_InvalidMonthCap(t *testing.T) {
	e := sampleEntries()
	e.MaxMonths = 0
	if _, err := RunScenarios(e); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestSummarize_RoundsAndKeepsMissingGoals(t *testing.T) {
	e := model.Entries{
		FixedIncome:      decimal.RequireFromString("1000.005"),
		VariableIncome:   model.Single(decimal.Zero),
		FixedExpenses:    dec(1500),
		VariableExpenses: model.Single(decimal.Zero),
		Target:           dec(1000),
		MaxMonths:        3,
	}
	outcomes, err := RunScenarios(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := Summarize(outcomes)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.MonthsToGoal != nil {
			t.Errorf("%s: MonthsToGoal = %d, want nil", row.Scenario, *row.MonthsToGoal)
		}
		// -499.995 * 3 = -1499.985
		if !row.FinalReserve.Equal(decimal.RequireFromString("-1499.99")) {
			t.Errorf("%s: FinalReserve = %s, want -1499.99", row.Scenario, row.FinalReserve)
		}
	}
}

func TestValidateEntries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Entries)
		want   []error
	}{
		{"valid", func(*model.Entries) {}, nil},
		{"no target", func(e *model.Entries) { e.Target = decimal.Zero }, []error{ErrMissingTarget}},
		{"variable income only", func(e *model.Entries) { e.FixedIncome = decimal.Zero }, nil},
		{"no income", func(e *model.Entries) {
			e.FixedIncome = decimal.Zero
			e.VariableIncome = model.Single(decimal.Zero)
		}, []error{ErrNoIncome}},
		{"no expense", func(e *model.Entries) {
			e.FixedExpenses = decimal.Zero
			e.VariableExpenses = model.Single(decimal.Zero)
		}, []error{ErrNoExpense}},
		{"negative months", func(e *model.Entries) { e.MaxMonths = -3 }, []error{ErrInvalidConfiguration}},
		{"months over limit", func(e *model.Entries) { e.MaxMonths = 100000000000 }, []error{ErrInvalidConfiguration}},
		{"months at limit", func(e *model.Entries) { e.MaxMonths = model.MaxMonthsLimit }, nil},
		{"everything missing", func(e *model.Entries) { *e = model.Entries{} },
			[]error{ErrMissingTarget, ErrNoIncome, ErrNoExpense, ErrInvalidConfiguration}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sampleEntries()
			tt.mutate(&e)
			err := ValidateEntries(e)
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("err = %v, want it to include %v", err, want)
				}
			}
		})
	}
}
