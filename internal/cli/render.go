package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderVerdict renders a one-line goal verdict in green or red.
func RenderVerdict(reached bool, text string) string {
	if reached {
		return goodStyle.Render("✓ " + text)
	}
	return badStyle.Render("✗ " + text)
}

// RenderMuted renders secondary text.
func RenderMuted(text string) string {
	return mutedStyle.Render(text)
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if w := lipgloss.Width(h); w > widths[i] {
				widths[i] = w
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && lipgloss.Width(cell) > widths[i] {
					widths[i] = lipgloss.Width(cell)
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// RenderProgressBar renders a text progress bar for a 0-1 fraction.
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = math.Max(0, math.Min(1, pct))

	filled := int(pct * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", mutedStyle.Render(bar), FormatPercent(pct))
}

// Series is one curve in a line chart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
	Marker rune
}

type chartCell struct {
	r     rune
	style *lipgloss.Style
}

// RenderLineChart overlays the series on a shared month axis with a dashed
// horizontal goal line. Series shorter than the longest one end early.
// label formats y-axis values.
func RenderLineChart(series []Series, goal float64, width, height int, label func(float64) string) string {
	months := 0
	for _, s := range series {
		months = max(months, len(s.Values))
	}
	if months == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := goal, goal
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		lo--
		hi++
	}

	rowOf := func(v float64) int {
		r := (height - 1) - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
		return max(0, min(height-1, r))
	}
	colOf := func(month int) int {
		if months == 1 {
			return 0
		}
		return month * (width - 1) / (months - 1)
	}

	grid := make([][]chartCell, height)
	for i := range grid {
		grid[i] = make([]chartCell, width)
	}

	goalStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	goalRow := rowOf(goal)
	for c := 0; c < width; c += 2 {
		grid[goalRow][c] = chartCell{r: '╌', style: &goalStyle}
	}

	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		st := lipgloss.NewStyle().Foreground(s.Color)
		marker := s.Marker
		if marker == 0 {
			marker = '•'
		}

		last := colOf(len(s.Values) - 1)
		for c := 0; c <= last; c++ {
			v := s.Values[0]
			if months > 1 {
				t := float64(c) * float64(months-1) / float64(width-1)
				i := int(t)
				if i >= len(s.Values)-1 {
					v = s.Values[len(s.Values)-1]
				} else {
					frac := t - float64(i)
					v = s.Values[i] + (s.Values[i+1]-s.Values[i])*frac
				}
			}
			grid[rowOf(v)][c] = chartCell{r: marker, style: &st}
		}
	}

	labels := make([]string, height)
	labels[0] = label(hi)
	labels[height-1] = label(lo)
	labels[goalRow] = label(goal)
	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, lipgloss.Width(l))
	}

	var b strings.Builder
	for r, row := range grid {
		b.WriteString(mutedStyle.Render(padLeft(labels[r], labelW)))
		b.WriteString(dimStyle.Render(" ┤"))
		for _, cell := range row {
			if cell.style == nil {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cell.style.Render(string(cell.r)))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelW+1))
	b.WriteString(dimStyle.Render("└" + strings.Repeat("─", width)))
	b.WriteString("\n")

	first, lastMonth := "1", fmt.Sprintf("%d", months)
	axis := first
	if months > 1 {
		axis += strings.Repeat(" ", max(1, width-len(first)-len(lastMonth))) + lastMonth
	}
	b.WriteString(strings.Repeat(" ", labelW+2))
	b.WriteString(mutedStyle.Render(axis))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", labelW+2))
	for i, s := range series {
		if i > 0 {
			b.WriteString("   ")
		}
		marker := s.Marker
		if marker == 0 {
			marker = '•'
		}
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(string(marker) + " " + s.Name))
	}
	b.WriteString("   ")
	b.WriteString(goalStyle.Render("╌ goal"))
	b.WriteString("\n")

	return b.String()
}
