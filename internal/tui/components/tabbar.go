package components

import (
	"strings"

	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs. The shortcut key is the first letter.
var Tabs = []Tab{
	{Name: "Home", Key: 'h'},
	{Name: "About", Key: 'a'},
}

const tabSep = "  "

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimKeyStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}
		parts[i] = dimKeyStyle.Render("[") + keyStyle.Render(tab.Name[:1]) + dimKeyStyle.Render("]") +
			inactiveStyle.Render(tab.Name[1:])
	}
	return " " + strings.Join(parts, tabSep)
}

// tabWidth is the rendered width of tab i when activeIdx is selected.
func tabWidth(i, activeIdx int) int {
	w := len(Tabs[i].Name)
	if i != activeIdx {
		w += 2 // brackets around the shortcut key
	}
	return w
}

// TabAtX returns the tab under column x of the tab bar, or -1.
func TabAtX(activeIdx, x int) int {
	pos := 1 // leading space
	for i := range Tabs {
		w := tabWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSep)
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
