package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v, want [34 33 33]", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != width {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), width)
		}
		// Padding under the short card must still carry a background.
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI codes", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Pessimistic", Value: "6 months", Detail: "R$ 5.400,00", Accent: theme.Active.Red},
		{Label: "Realistic", Value: "5 months"},
		{Label: "Optimistic", Value: "4 months", Footer: Sparkline([]float64{1, 2, 3}, theme.Active.Green)},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	tests := map[string]int{"o": 0, "1": 1, "2": 2, "3": 3, "z": -1}
	for key, want := range tests {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
	if len(Tabs)-1 != len(model.ScenarioKinds) {
		t.Fatalf("tabs = %d, want overview plus one per scenario", len(Tabs))
	}
}

func TestSparklineHandlesNegatives(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	got := Sparkline([]float64{-100, 0, 100}, theme.Active.Blue)
	if got != "▁▄█" {
		t.Fatalf("Sparkline = %q, want ▁▄█", got)
	}
}

func TestColorForPct(t *testing.T) {
	th := theme.Active
	tests := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0, th.Red},
		{0.5, th.Orange},
		{0.8, th.Yellow},
		{1, th.Green},
	}
	for _, tt := range tests {
		if got := ColorForPct(tt.pct); got != tt.want {
			t.Errorf("ColorForPct(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestReserveChart_FitsBox(t *testing.T) {
	months := 4
	res := model.Result{
		Records: []model.MonthlyRecord{
			{Month: 1, Reserve: decimal.NewFromInt(1000)},
			{Month: 2, Reserve: decimal.NewFromInt(2000)},
			{Month: 3, Reserve: decimal.NewFromInt(3000)},
			{Month: 4, Reserve: decimal.NewFromInt(4000)},
		},
		GoalReached:  true,
		MonthsToGoal: &months,
	}
	out := ReserveChart([]model.Outcome{{Kind: model.Realistic, Result: res}}, 4000, 60, 12)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("chart height = %d, want 12", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 60 {
			t.Errorf("line %d width = %d, want <= 60", i, w)
		}
	}
	if ReserveChart(nil, 1, 5, 2) != "" {
		t.Fatal("tiny chart should render nothing")
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		5000:    "5k",
		-1500:   "-1.5k",
		2500000: "2.5M",
		42:      "42",
		0.5:     "0.50",
	}
	for in, want := range tests {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
