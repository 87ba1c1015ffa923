package cli

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1234567:   "1,234,567",
		-98765:    "-98,765",
		100000000: "100,000,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "300", FormatAmount(300))
	assert.Equal(t, "1,250", FormatAmount(1250))
	assert.Equal(t, "12.50", FormatAmount(12.5))
	assert.Equal(t, "2", FormatAmount(1.999))
	assert.Equal(t, "-0.50", FormatAmount(-0.5))
	assert.Equal(t, "n/a", FormatAmount(math.NaN()))
}

func TestFormatPercentAndDegrees(t *testing.T) {
	assert.Equal(t, "30.0%", FormatPercent(0.3))
	assert.Equal(t, "108.0°", FormatDegrees(108))
}

func TestBudgetTable(t *testing.T) {
	ds, err := model.NewDataset([]model.BudgetSlice{{Title: "Food", Budget: 300}, {Title: "Rent", Budget: 700}})
	require.NoError(t, err)

	tbl := BudgetTable(ds)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Food", "300", "30.0%", "108.0°"}, tbl.Rows[0][:4])
	assert.Equal(t, []string{"Rent", "700", "70.0%", "252.0°"}, tbl.Rows[1][:4])
	assert.Equal(t, "1,000", tbl.Footer[0][1])

	out := RenderTable(tbl)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Total")
}

func TestBudgetTableEmpty(t *testing.T) {
	ds, err := model.NewDataset(nil)
	require.NoError(t, err)

	tbl := BudgetTable(ds)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "No budget data", tbl.Rows[0][0])
	assert.Empty(t, tbl.Footer)
}

func TestRenderTableAlignsRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"long cell", "1"}, {"x", "22"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(stripANSI(lines[0])))
	for _, l := range lines {
		assert.Len(t, []rune(stripANSI(l)), width)
	}
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderShareBar(t *testing.T) {
	bar := stripANSI(RenderShareBar(0.5, 10, ColorAccent))
	assert.Equal(t, "█████░░░░░", bar)
	assert.Equal(t, "░░░░", stripANSI(RenderShareBar(-1, 4, ColorAccent)))
	assert.Empty(t, RenderShareBar(1, 0, ColorAccent))
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, stripANSI(RenderError(errors.New("boom"))), "error: boom")
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
