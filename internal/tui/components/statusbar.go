package components

import (
	"strings"

	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. notice is shown on the
// right, in orange when warn is set.
func RenderStatusBar(width int, notice string, warn bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	noticeStyle := style
	if warn {
		noticeStyle = noticeStyle.Foreground(t.Orange)
	} else {
		noticeStyle = noticeStyle.Foreground(t.Accent)
	}

	left := " [e]dit  e[x]port  [?]help  [q]uit"
	right := ""
	if notice != "" {
		right = notice + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left+strings.Repeat(" ", padding)) + noticeStyle.Render(right)
}
