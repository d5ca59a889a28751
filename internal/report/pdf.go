// Package report renders projection outcomes as a printable PDF.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/theirongolddev/reserva/internal/cli"
	"github.com/theirongolddev/reserva/internal/config"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// DefaultTitle is used when Report.Title is empty.
const DefaultTitle = "Financial Plan - Scenario Comparison"

const (
	margin      = 40.0
	chartHeight = 260.0
	rowHeight   = 20.0
)

type rgb struct{ r, g, b int }

// Same hues as the terminal chart, darkened for paper.
var scenarioColors = map[model.ScenarioKind]rgb{
	model.Pessimistic: {0xAF, 0x30, 0x29},
	model.Realistic:   {0x20, 0x5E, 0xA6},
	model.Optimistic:  {0x66, 0x80, 0x0B},
}

var goalColor = rgb{0xAD, 0x83, 0x01}

// Report is everything the PDF shows.
type Report struct {
	ID          string
	Title       string
	Target      decimal.Decimal
	Outcomes    []model.Outcome
	Currency    config.CurrencyConfig
	GeneratedAt time.Time
}

// WritePDF renders r as a one-page A4 document.
func WritePDF(w io.Writer, r Report) error {
	if len(r.Outcomes) == 0 {
		return fmt.Errorf("report has no scenarios")
	}
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("reserva", true)
	if !r.GeneratedAt.IsZero() {
		pdf.SetCreationDate(r.GeneratedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 24, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 18, tr("Goal: "+cli.FormatCurrency(r.Target, r.Currency)), "", 1, "L", false, 0, "")
	if !r.GeneratedAt.IsZero() || r.ID != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0x6F, 0x6E, 0x69)
		meta := r.GeneratedAt.Format("2006-01-02 15:04")
		if r.ID != "" {
			meta += "  -  " + r.ID
		}
		pdf.CellFormat(contentW, 12, tr(meta), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(10)

	writeTable(pdf, tr, r, contentW)
	pdf.Ln(20)
	writeChart(pdf, tr, r, margin, pdf.GetY(), contentW, chartHeight)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, r Report, width float64) {
	cols := []float64{width * 0.34, width * 0.33, width * 0.33}
	headers := []string{"Scenario", "Months to reach goal", "Final reserve"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0xD9, 0xD9, 0xD9)
	pdf.SetDrawColor(0x80, 0x80, 0x80)
	for i, h := range headers {
		pdf.CellFormat(cols[i], rowHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range projection.Summarize(r.Outcomes) {
		pdf.CellFormat(cols[0], rowHeight, tr(row.Scenario.String()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[1], rowHeight, tr(cli.FormatMonths(row.MonthsToGoal)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2], rowHeight, tr(cli.FormatCurrency(row.FinalReserve, r.Currency)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func writeChart(pdf *fpdf.Fpdf, tr func(string) string, r Report, x, y, w, h float64) {
	// Room for the axis labels and the legend.
	plotX, plotY := x+60, y+10
	plotW, plotH := w-70, h-50

	goal := r.Target.InexactFloat64()
	lo, hi := math.Min(0, goal), goal
	months := 0
	for _, o := range r.Outcomes {
		months = max(months, o.Result.Months())
		for _, v := range o.Result.ReserveSeries() {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	px := func(month int) float64 {
		if months <= 1 {
			return plotX
		}
		return plotX + float64(month-1)/float64(months-1)*plotW
	}
	py := func(v float64) float64 {
		return plotY + plotH - (v-lo)/(hi-lo)*plotH
	}

	// Axes
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.8)
	pdf.Line(plotX, plotY, plotX, plotY+plotH)
	pdf.Line(plotX, plotY+plotH, plotX+plotW, plotY+plotH)

	pdf.SetFont("Helvetica", "", 7)
	for _, v := range []float64{lo, (lo + hi) / 2, hi} {
		label := tr(cli.FormatAmount(decimal.NewFromFloat(v), r.Currency))
		pdf.Text(plotX-4-pdf.GetStringWidth(label), py(v)+2, label)
	}
	step := max(1, months/12)
	for m := 1; m <= months; m += step {
		label := fmt.Sprintf("%d", m)
		pdf.Text(px(m)-pdf.GetStringWidth(label)/2, plotY+plotH+10, label)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(plotX+plotW/2-pdf.GetStringWidth("Months")/2, plotY+plotH+24, "Months")
	pdf.TransformBegin()
	pdf.TransformRotate(90, x+8, plotY+plotH/2)
	label := "Cumulative reserve"
	pdf.Text(x+8-pdf.GetStringWidth(label)/2, plotY+plotH/2, label)
	pdf.TransformEnd()

	// Goal line
	pdf.SetDrawColor(goalColor.r, goalColor.g, goalColor.b)
	pdf.SetLineWidth(1)
	pdf.SetDashPattern([]float64{5, 3}, 0)
	pdf.Line(plotX, py(goal), plotX+plotW, py(goal))
	pdf.SetDashPattern([]float64{}, 0)

	// Curves
	pdf.SetLineWidth(1.5)
	for _, o := range r.Outcomes {
		c := scenarioColors[o.Kind]
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetFillColor(c.r, c.g, c.b)
		series := o.Result.ReserveSeries()
		for i, v := range series {
			if i > 0 {
				pdf.Line(px(i), py(series[i-1]), px(i+1), py(v))
			}
			pdf.Circle(px(i+1), py(v), 1.8, "F")
		}
	}

	// Legend
	lx, ly := plotX, plotY+plotH+36
	pdf.SetFont("Helvetica", "", 8)
	for _, o := range r.Outcomes {
		c := scenarioColors[o.Kind]
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.Line(lx, ly, lx+14, ly)
		name := tr(o.Kind.String())
		pdf.Text(lx+18, ly+3, name)
		lx += 30 + pdf.GetStringWidth(name)
	}
	pdf.SetDrawColor(goalColor.r, goalColor.g, goalColor.b)
	pdf.SetLineWidth(1)
	pdf.SetDashPattern([]float64{5, 3}, 0)
	pdf.Line(lx, ly, lx+14, ly)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Text(lx+18, ly+3, tr("Goal ("+cli.FormatCurrency(r.Target, r.Currency)+")"))
}
