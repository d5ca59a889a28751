// Package model defines domain types for reserva projections and scenarios.
package model

import "github.com/shopspring/decimal"

// MaxMonthsLimit is the largest month cap a projection accepts (100 years).
const MaxMonthsLimit = 1200

// Amount limits. Decimal arithmetic rescales both operands to the smaller
// exponent, so the exponent window is checked before the magnitude.
const (
	minAmountExponent = -20
	maxAmountExponent = 12
)

// MaxAmount is the largest absolute amount accepted for any entry.
var MaxAmount = decimal.New(1, maxAmountExponent)

// AmountInBounds reports whether d is small enough, in both magnitude and
// scale, to take part in a projection.
func AmountInBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// Inputs holds the resolved amounts for one projection run.
type Inputs struct {
	FixedIncome      decimal.Decimal `json:"fixed_income"`
	VariableIncome   decimal.Decimal `json:"variable_income"`
	FixedExpenses    decimal.Decimal `json:"fixed_expenses"`
	VariableExpenses decimal.Decimal `json:"variable_expenses"`
	Target           decimal.Decimal `json:"target"`
	MaxMonths        int             `json:"max_months"`
}

// MonthlyIncome is the scenario-constant income for every simulated month.
func (in Inputs) MonthlyIncome() decimal.Decimal {
	return in.FixedIncome.Add(in.VariableIncome)
}

// MonthlyExpenses is the scenario-constant spending for every simulated month.
func (in Inputs) MonthlyExpenses() decimal.Decimal {
	return in.FixedExpenses.Add(in.VariableExpenses)
}

// MonthlyRecord is one simulated month.
type MonthlyRecord struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"monthly_balance"`
	Reserve  decimal.Decimal `json:"cumulative_reserve"`
}

// Result is the outcome of a single projection.
type Result struct {
	Records      []MonthlyRecord `json:"records"`
	GoalReached  bool            `json:"goal_reached"`
	MonthsToGoal *int            `json:"months_to_goal"` // nil when the goal is not reached
	FinalReserve decimal.Decimal `json:"final_reserve"`
}

// Months returns the number of simulated months.
func (r Result) Months() int {
	return len(r.Records)
}

// ReserveSeries returns the cumulative reserve per month as floats, for charting.
func (r Result) ReserveSeries() []float64 {
	vals := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		vals[i] = rec.Reserve.InexactFloat64()
	}
	return vals
}
