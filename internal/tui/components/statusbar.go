package components

import (
	"strings"

	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. note is shown in the
// middle, right-aligned text carries data freshness.
func RenderStatusBar(width int, note, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	noteStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	left := " [?]help  [r]efresh  [g]uardian  [q]uit"
	if note != "" {
		left += "  " + noteStyle.Render(note)
	}
	if right != "" {
		right += " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding)) + right
	return style.Render(bar)
}
