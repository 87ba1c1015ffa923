package components

import (
	"strings"

	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and right-aligned status text.
func RenderStatusBar(width int, hints, status string) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Active.TextMuted).
		Width(width)

	left := " " + hints
	right := ""
	if status != "" {
		right = status + " "
	}
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
