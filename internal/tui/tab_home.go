package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetview/internal/cli"
	"github.com/theirongolddev/budgetview/internal/host"
	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/panel"
	"github.com/theirongolddev/budgetview/internal/render/declarative"
	"github.com/theirongolddev/budgetview/internal/render/retained"
	"github.com/theirongolddev/budgetview/internal/tui/components"
	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHomeTab(cw int) string {
	t := theme.Active
	p := a.host.Panel

	switch p.State() {
	case panel.Inactive, panel.Loading:
		body := a.spinner.View() + " " +
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("Loading budget from "+a.apiLabel()+"...")
		return components.ContentCard("Budget", body, cw)

	case panel.Failed:
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("[r] retry")
		body := errStyle.Render(p.Err().Error()) + "\n\n" + hint
		return components.AlertCard("Could not load budget", body, cw, t.Red)
	}

	ds := p.Dataset()
	var b strings.Builder

	b.WriteString(components.MetricCardRow(budgetMetrics(ds), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Distribution", shareBars(ds, cw), cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Retained", retainedSummary(a.host), halves[0]),
		components.ContentCard("Declarative", declarativeSummary(a.host), halves[1]),
	}))

	if line := a.savedLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func budgetMetrics(ds *model.BudgetDataset) []components.Metric {
	total := components.Metric{Label: "Total", Value: cli.FormatAmount(ds.Total())}
	count := components.Metric{Label: "Categories", Value: cli.FormatNumber(int64(ds.Len()))}
	largest := components.Metric{Label: "Largest", Value: "-"}

	best := -1
	for i := range ds.Len() {
		if best < 0 || ds.At(i).Budget > ds.At(best).Budget {
			best = i
		}
	}
	if best >= 0 && !ds.Degenerate() {
		s := ds.At(best)
		largest.Value = s.Title
		largest.Hint = cli.FormatAmount(s.Budget) + "  " + cli.FormatPercent(ds.Share(best))
	}
	return []components.Metric{total, count, largest}
}

func shareBars(ds *model.BudgetDataset, cw int) string {
	if ds.Degenerate() {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render(declarative.EmptyMessage)
	}

	inner := components.CardInnerWidth(cw)
	labelW := 4
	for _, title := range ds.Titles() {
		labelW = max(labelW, len([]rune(title)))
	}
	labelW = min(labelW, 18)
	// swatch, gaps, percentage and amount take roughly 22 columns
	barW := max(inner-labelW-22, 8)

	colors := declarative.NewOrdinalScale(ds.Titles(), declarative.Category10)
	lines := make([]string, ds.Len())
	for i, s := range ds.Slices() {
		lines[i] = components.ShareBar(s.Title, ds.Share(i), cli.FormatAmount(s.Budget), colors.Color(s.Title), labelW, barW)
	}
	return strings.Join(lines, "\n")
}

func retainedSummary(h *host.Host) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)

	handle := h.Retained.Handle()
	if handle == nil {
		return label.Render("no live chart")
	}
	kind := "pie"
	if handle.Placeholder() {
		kind = "placeholder"
	}
	rows := []string{
		label.Render("handle  ") + value.Render(fmt.Sprintf("#%d (%s)", handle.ID(), kind)),
		label.Render("slices  ") + value.Render(sliceCount(handle)),
		label.Render("bitmap  ") + value.Render(fmt.Sprintf("%dx%d, %s bytes",
			h.Bitmap.Width(), h.Bitmap.Height(), cli.FormatNumber(int64(len(h.Bitmap.Bytes()))))),
		label.Render(retained.Caption),
	}
	return strings.Join(rows, "\n")
}

// sliceCount reports drawn sectors, noting legend-only zero budgets.
func sliceCount(h *retained.Handle) string {
	n := cli.FormatNumber(int64(h.Slices()))
	if extra := h.Entries() - h.Slices(); extra > 0 {
		n += fmt.Sprintf(" (+%d legend only)", extra)
	}
	return n
}

func declarativeSummary(h *host.Host) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)

	rows := []string{
		label.Render("sectors ") + value.Render(cli.FormatNumber(int64(h.Vector.Count("sector")))),
		label.Render("labels  ") + value.Render(cli.FormatNumber(int64(h.Vector.Count("label")))),
		label.Render("binds   ") + value.Render(cli.FormatNumber(int64(h.Vector.Generation()))),
	}
	if n := h.Declarative.Scene().Notice; n != nil {
		rows = append(rows, label.Render(n.Text))
	}
	return strings.Join(rows, "\n")
}

func (a App) savedLine() string {
	t := theme.Active
	switch {
	case a.saveErr != nil:
		return lipgloss.NewStyle().Foreground(t.Orange).Render("  could not write charts: " + a.saveErr.Error())
	case len(a.saved) > 0:
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("  wrote " + strings.Join(a.saved, ", "))
	}
	return ""
}
