package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values. Negative values are
// scaled from the series minimum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := math.Min(0, values[0]), values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(len(blocks)-1, idx))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// ReserveChart overlays the cumulative reserve of every outcome with the
// goal line, sized to fit width x height cells including axes and legend.
func ReserveChart(outcomes []model.Outcome, goal float64, width, height int) string {
	t := theme.Active

	series := make([]cli.Series, 0, len(outcomes))
	for _, o := range outcomes {
		series = append(series, cli.Series{
			Name:   o.Kind.String(),
			Values: o.Result.ReserveSeries(),
			Color:  t.Scenario(o.Kind),
			Marker: '•',
		})
	}

	// y labels, axis line, month labels and legend
	labelW := 7
	plotW := width - labelW - 2
	plotH := height - 3
	if plotW < 10 || plotH < 3 {
		return ""
	}
	return cli.RenderLineChart(series, goal, plotW, plotH, formatChartLabel)
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		if v == math.Trunc(v/1e9)*1e9 {
			return fmt.Sprintf("%.0fB", v/1e9)
		}
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
