// Package projection runs the month-by-month savings simulation and the
// three-scenario comparison built on top of it.
package projection

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/reserva/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultMaxMonths is the month cap used when none is configured.
const DefaultMaxMonths = 24

// recordPrealloc bounds the initial record capacity; most goals are reached
// well before the cap.
const recordPrealloc = 60

// ErrInvalidConfiguration is returned when the month cap is outside
// [1, model.MaxMonthsLimit].
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrAmountOutOfRange is returned when an input amount exceeds
// model.MaxAmount or carries an unreasonable scale.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Project simulates month by month until the cumulative reserve reaches the
// target or MaxMonths is exhausted. Income and expenses are constant across
// months. The goal check runs after each month's balance is added, so the
// stopping month is always part of the result.
func Project(in model.Inputs) (model.Result, error) {
	if in.MaxMonths < 1 {
		return model.Result{}, fmt.Errorf("%w: max months must be at least 1, got %d", ErrInvalidConfiguration, in.MaxMonths)
	}
	if in.MaxMonths > model.MaxMonthsLimit {
		return model.Result{}, fmt.Errorf("%w: max months must be at most %d, got %d",
			ErrInvalidConfiguration, model.MaxMonthsLimit, in.MaxMonths)
	}
	if err := checkAmounts(in); err != nil {
		return model.Result{}, err
	}

	income := in.MonthlyIncome()
	expenses := in.MonthlyExpenses()
	balance := income.Sub(expenses)

	records := make([]model.MonthlyRecord, 0, min(in.MaxMonths, recordPrealloc))
	reserve := decimal.Zero
	for month := 1; month <= in.MaxMonths; month++ {
		reserve = reserve.Add(balance)
		records = append(records, model.MonthlyRecord{
			Month:    month,
			Income:   income,
			Expenses: expenses,
			Balance:  balance,
			Reserve:  reserve,
		})
		if reserve.GreaterThanOrEqual(in.Target) {
			break
		}
	}

	return summarize(records, in.Target), nil
}

func checkAmounts(in model.Inputs) error {
	var errs []error
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"fixed income", in.FixedIncome},
		{"variable income", in.VariableIncome},
		{"fixed expenses", in.FixedExpenses},
		{"variable expenses", in.VariableExpenses},
		{"target", in.Target},
	} {
		if !model.AmountInBounds(f.v) {
			errs = append(errs, fmt.Errorf("%w: %s must be within ±%s", ErrAmountOutOfRange, f.name, model.MaxAmount))
		}
	}
	return errors.Join(errs...)
}

// summarize derives the verdict fields from the last record.
func summarize(records []model.MonthlyRecord, target decimal.Decimal) model.Result {
	res := model.Result{Records: records, FinalReserve: decimal.Zero}
	if len(records) == 0 {
		return res
	}

	last := records[len(records)-1]
	res.FinalReserve = last.Reserve
	if last.Reserve.GreaterThanOrEqual(target) {
		res.GoalReached = true
		month := last.Month
		res.MonthsToGoal = &month
	}
	return res
}
