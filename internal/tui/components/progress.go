package components

import (
	"fmt"

	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ShareBar renders one budget slice as a labeled bar filled to share (0-1)
// in the slice's chart color, followed by its percentage and amount.
func ShareBar(label string, share float64, amount, color string, labelW, barWidth int) string {
	t := theme.Active
	share = min(max(share, 0), 1)

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	return swatch + " " +
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) + " " +
		bar.ViewAs(share) + " " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", share*100)) + "  " +
		amountStyle.Render(amount)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}
