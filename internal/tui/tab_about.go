package tui

import (
	"strings"

	"github.com/theirongolddev/budgetview/internal/tui/components"
	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var aboutSections = []struct{ title, body string }{
	{"Stay on track", "Do you know where you are spending your money? If you really stop to track it down, " +
		"you would get surprised! Proper budget management depends on real data, and this app will help you with that."},
	{"Alerts", "What if your clothing budget ended? You will get an alert. The goal is to never go over the budget."},
	{"Results", "People who stick to a financial plan, budgeting every expense, get out of debt faster. " +
		"They also spend without guilt or fear, because they know it is all accounted for."},
	{"Free", "budgetview is free, and you are the only one holding your data."},
}

func renderAboutTab(cw int) string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextPrimary)

	halves := components.LayoutRow(cw, 2)
	cards := make([]string, len(aboutSections))
	for i, s := range aboutSections {
		w := halves[i%2]
		body := text.Width(components.CardInnerWidth(w)).Render(s.body)
		cards[i] = components.ContentCard(s.title, body, w)
	}

	var rows []string
	for i := 0; i < len(cards); i += 2 {
		rows = append(rows, components.CardRow(cards[i:min(i+2, len(cards))]))
	}
	return strings.Join(rows, "\n")
}
