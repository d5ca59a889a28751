// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/reserva/internal/config"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount with the configured symbol and separators.
// e.g., 1234.56 -> "R$ 1.234,56", -12000 -> "-R$ 12.000,00"
func FormatCurrency(d decimal.Decimal, c config.CurrencyConfig) string {
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	num := formatAmount(d, c)
	if c.Symbol == "" {
		return sign + num
	}
	return sign + c.Symbol + " " + num
}

// FormatAmount is FormatCurrency without the symbol.
func FormatAmount(d decimal.Decimal, c config.CurrencyConfig) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-" + formatAmount(d.Neg(), c)
	}
	return formatAmount(d, c)
}

func formatAmount(d decimal.Decimal, c config.CurrencyConfig) string {
	dec := c.Decimal
	if dec == "" {
		dec = "."
	}
	// humanize needs a thousands directive, so a blank one is handled here.
	if c.Thousands == "" {
		return strings.Replace(d.StringFixed(2), ".", dec, 1)
	}
	return humanize.FormatFloat("#"+c.Thousands+"###"+dec+"##", d.InexactFloat64())
}

// FormatMonths formats a months-to-goal value.
// e.g., nil -> "not reached", 1 -> "1 month", 7 -> "7 months"
func FormatMonths(months *int) string {
	if months == nil {
		return "not reached"
	}
	if *months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", *months)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// GoalProgress returns how far reserve is toward target, clamped to [0, 1].
// A non-positive target counts as complete once the reserve reaches it.
func GoalProgress(reserve, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		if reserve.GreaterThanOrEqual(target) {
			return 1
		}
		return 0
	}
	pct := reserve.Div(target).InexactFloat64()
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	}
	return pct
}
