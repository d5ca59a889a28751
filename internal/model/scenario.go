package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ScenarioKind identifies one of the three fixed income/expense pairings.
type ScenarioKind int

const (
	Pessimistic ScenarioKind = iota
	Realistic
	Optimistic
)

// ScenarioKinds lists every scenario in presentation order.
var ScenarioKinds = []ScenarioKind{Pessimistic, Realistic, Optimistic}

func (k ScenarioKind) String() string {
	switch k {
	case Pessimistic:
		return "Pessimistic"
	case Realistic:
		return "Realistic"
	case Optimistic:
		return "Optimistic"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the kind as its lowercase name.
func (k ScenarioKind) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText accepts the lowercase or title-case name.
func (k *ScenarioKind) UnmarshalText(b []byte) error {
	kind, err := ParseScenarioKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseScenarioKind maps a scenario name to its kind, ignoring case.
func ParseScenarioKind(name string) (ScenarioKind, error) {
	for _, k := range ScenarioKinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown scenario %q", name)
}

// Range is a resolved amount interval. A single value has Min == Mid == Max.
type Range struct {
	Min decimal.Decimal `json:"min"`
	Mid decimal.Decimal `json:"mid"`
	Max decimal.Decimal `json:"max"`
}

// Single returns a degenerate range holding v at every point.
func Single(v decimal.Decimal) Range {
	return Range{Min: v, Mid: v, Max: v}
}

// IsSingle reports whether the range collapses to one value.
func (r Range) IsSingle() bool {
	return r.Min.Equal(r.Max) && r.Mid.Equal(r.Min)
}

// Entries is one set of user entries before scenario derivation.
type Entries struct {
	FixedIncome      decimal.Decimal `json:"fixed_income"`
	VariableIncome   Range           `json:"variable_income"`
	FixedExpenses    decimal.Decimal `json:"fixed_expenses"`
	VariableExpenses Range           `json:"variable_expenses"`
	Target           decimal.Decimal `json:"target"`
	MaxMonths        int             `json:"max_months"`
}

// Scenario pairs a kind with the engine inputs derived for it.
type Scenario struct {
	Kind   ScenarioKind `json:"scenario"`
	Inputs Inputs       `json:"inputs"`
}

// Outcome is a scenario together with its projection.
type Outcome struct {
	Kind   ScenarioKind `json:"scenario"`
	Inputs Inputs       `json:"inputs"`
	Result Result       `json:"result"`
}

// SummaryRow is one line of the scenario comparison.
type SummaryRow struct {
	Scenario     ScenarioKind    `json:"scenario"`
	MonthsToGoal *int            `json:"months_to_goal"`
	FinalReserve decimal.Decimal `json:"final_reserve"`
}
