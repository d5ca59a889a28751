// Package source turns user-entered text (flags, plan files, form fields)
// into resolved amounts for the projection engine.
package source

import (
	"strings"
	"unicode"

	"github.com/theirongolddev/reserva/internal/model"

	"github.com/shopspring/decimal"
)

// rangeSeparators are tried in order; the first one present wins.
var rangeSeparators = []string{"a", "-"}

var two = decimal.NewFromInt(2)

// ParseAmount reads a single amount. A comma is accepted as the decimal
// separator. Anything unparseable or outside model.MaxAmount resolves to
// zero.
func ParseAmount(text string) decimal.Decimal {
	v, ok := parseNumber(strings.TrimSpace(text))
	if !ok {
		return decimal.Zero
	}
	return v
}

// ParseRange reads an amount that may be written as an interval:
// "600 a 1000", "600-1000" or just "600". Empty or malformed text resolves to
// a zero range rather than an error; callers must tolerate that.
func ParseRange(text string) model.Range {
	s := stripSpace(text)
	if s == "" {
		return model.Range{}
	}

	for _, sep := range rangeSeparators {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.Split(s, sep)
		if len(parts) != 2 {
			return model.Range{}
		}
		lo, okLo := parseNumber(parts[0])
		hi, okHi := parseNumber(parts[1])
		if !okLo || !okHi {
			return model.Range{}
		}
		// Bounds are kept as written, even when reversed.
		return model.Range{Min: lo, Mid: lo.Add(hi).Div(two), Max: hi}
	}

	v, ok := parseNumber(s)
	if !ok {
		return model.Range{}
	}
	return model.Single(v)
}

func parseNumber(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || !model.AmountInBounds(v) {
		return decimal.Zero, false
	}
	return v, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
