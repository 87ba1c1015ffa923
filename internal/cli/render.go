package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/render/declarative"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
	errStyle    = lipgloss.NewStyle().Foreground(ColorRed)
)

// Table is a bordered text table. The first column is left aligned and the
// rest are right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Footer rows are drawn below a separator, e.g. totals.
	Footer [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// RenderTable renders t, sizing columns to fit their widest cell.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	for _, row := range append(t.Rows, t.Footer...) {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	for _, row := range t.Footer {
		measure(row)
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(row []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 {
				cell += pad
			} else {
				cell = pad + cell
			}
			b.WriteString(style.Render(" " + cell + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		b.WriteString(line(row, valueStyle))
	}
	if len(t.Footer) > 0 {
		b.WriteString(rule("├", "┼", "┤"))
		for _, row := range t.Footer {
			b.WriteString(line(row, headerStyle))
		}
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderShareBar draws a bar of width cells filled to share (0-1) in color.
func RenderShareBar(share float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	share = min(max(share, 0), 1)
	filled := int(share*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}

// BudgetTable builds the per-slice breakdown of ds: amount, share and the
// angle each slice spans in the pie.
func BudgetTable(ds *model.BudgetDataset) Table {
	t := Table{
		Title:   "Budget Distribution",
		Headers: []string{"Category", "Budget", "Share", "Angle", ""},
	}
	if ds.Degenerate() {
		t.Rows = [][]string{{declarative.EmptyMessage, "", "", "", ""}}
		return t
	}

	colors := declarative.NewOrdinalScale(ds.Titles(), declarative.Category10)
	for _, a := range declarative.Pie(ds) {
		share := ds.Share(a.Index)
		t.Rows = append(t.Rows, []string{
			a.Slice.Title,
			FormatAmount(a.Slice.Budget),
			FormatPercent(share),
			FormatDegrees(declarative.Degrees(a.Span())),
			RenderShareBar(share, 20, lipgloss.Color(colors.Color(a.Slice.Title))),
		})
	}
	t.Footer = [][]string{{"Total", FormatAmount(ds.Total()), FormatPercent(1), FormatDegrees(360), ""}}
	return t
}

// RenderError renders a one-line error for stderr.
func RenderError(err error) string {
	return errStyle.Render("  error: ") + mutedStyle.Render(err.Error())
}

// RenderKV renders an aligned key/value line.
func RenderKV(key, value string) string {
	return fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%-12s", key)), valueStyle.Render(value))
}
