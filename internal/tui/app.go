// Package tui provides the interactive Bubble Tea dashboard for reserva.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/reserva/internal/config"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/report"
	"github.com/theirongolddev/reserva/internal/source"
	"github.com/theirongolddev/reserva/internal/tui/components"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// ExportDoneMsg is sent when a PDF export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	// Entries; shared with the form, which writes through the pointer
	vals      *entryValues
	maxMonths int
	currency  config.CurrencyConfig

	// Pre-computed for the current entries
	entries  model.Entries
	outcomes []model.Outcome
	tables   []table.Model // one per outcome

	// Entries form (huh)
	form    *huh.Form
	editing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Status bar notice
	notice string
	warn   bool

	exportDir string
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5 // minimum content area height
)

// NewApp creates a new TUI app model prefilled from plan. The entries form
// opens first.
func NewApp(plan source.Plan, cfg config.Config) App {
	theme.SetActive(cfg.Appearance.Theme)

	months := plan.MaxMonths
	if months < 1 {
		months = cfg.General.MaxMonths
	}

	vals := valuesFromPlan(plan)
	a := App{
		vals:      &vals,
		maxMonths: months,
		currency:  cfg.Currency,
		exportDir: ".",
	}
	a.openForm("")
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) openForm(problem string) {
	a.form = newEntriesForm(a.vals, problem)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	a.editing = true
}

// apply validates entries and recomputes every scenario.
func (a *App) apply(entries model.Entries) error {
	if err := projection.ValidateEntries(entries); err != nil {
		return err
	}
	outcomes, err := projection.RunScenarios(entries)
	if err != nil {
		return err
	}
	a.entries = entries
	a.outcomes = outcomes
	a.rebuildTables()
	return nil
}

func (a *App) rebuildTables() {
	cw, ch := a.contentWidth(), a.contentHeight()
	a.tables = make([]table.Model, 0, len(a.outcomes))
	for _, o := range a.outcomes {
		a.tables = append(a.tables, a.newRecordTable(o, cw, ch))
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.rebuildTables()
		return a, nil

	case tea.MouseMsg:
		if a.editing || a.showHelp {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if i := a.scenarioIdx(); i >= 0 {
				a.tables[i].MoveUp(1)
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if i := a.scenarioIdx(); i >= 0 {
				a.tables[i].MoveDown(1)
			}
			return a, nil

		case tea.MouseButtonLeft:
			// Tab bar is the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Entries form intercepts all keys
		if a.editing && a.form != nil {
			return a.updateForm(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "e":
			a.notice = ""
			a.openForm("")
			return a, a.form.Init()
		case "x":
			a.notice, a.warn = "exporting…", false
			return a, exportCmd(a.exportDir, a.newReport())
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if tab := components.TabIdxByKey(key); tab >= 0 {
			a.activeTab = tab
			return a, nil
		}

		// Remaining keys scroll the monthly table
		if i := a.scenarioIdx(); i >= 0 {
			var cmd tea.Cmd
			a.tables[i], cmd = a.tables[i].Update(msg)
			return a, cmd
		}
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.notice, a.warn = "export failed: "+msg.Err.Error(), true
		} else {
			a.notice, a.warn = "saved "+msg.Path, false
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.editing && a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		if err := a.apply(a.vals.entries(a.maxMonths)); err != nil {
			a.openForm(problemText(err))
			return a, a.form.Init()
		}
		a.editing = false
		a.form = nil
		a.notice, a.warn = "plan updated", false
		return a, nil

	case huh.StateAborted:
		if a.outcomes == nil {
			return a, tea.Quit
		}
		a.editing = false
		a.form = nil
		return a, nil
	}

	return a, cmd
}

// problemText flattens a joined validation error for the form note.
func problemText(err error) string {
	return "• " + strings.ReplaceAll(err.Error(), "\n", "\n• ")
}

// scenarioIdx returns the outcome shown by the active tab, or -1 on the
// overview.
func (a App) scenarioIdx() int {
	i := a.activeTab - 1
	if i < 0 || i >= len(a.tables) {
		return -1
	}
	return i
}

func (a App) newReport() report.Report {
	return report.Report{
		ID:          uuid.NewString(),
		Title:       report.DefaultTitle,
		Target:      a.entries.Target,
		Outcomes:    a.outcomes,
		Currency:    a.currency,
		GeneratedAt: time.Now(),
	}
}

// exportCmd writes the report to a timestamped file in dir.
func exportCmd(dir string, r report.Report) tea.Cmd {
	return func() tea.Msg {
		name := fmt.Sprintf("reserva-report-%s.pdf", r.GeneratedAt.Format("20060102-150405"))
		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		if err := report.WritePDF(f, r); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return ExportDoneMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	if cw < minTerminalWidth {
		cw = minTerminalWidth
	}
	return cw
}

// contentHeight is the height left between the tab bar and the status bar.
func (a App) contentHeight() int {
	return max(minContentHeight, a.height-2)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.editing && a.form != nil {
		return a.form.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  reserva needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o 1 2 3", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll monthly table"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"e", "Edit entries"},
		{"x", "Export PDF report"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.notice, a.warn)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	if a.activeTab == 0 {
		content = a.renderOverviewTab(cw, contentH)
	} else {
		content = a.renderScenarioTab(a.activeTab-1, cw)
	}

	// Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// Center when w > cw
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
