package retained

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	legendTop      = 36
	legendRowH     = 16
	legendSwatch   = 10
	legendGap      = 14
	legendFontSize = 9
	approxCharW    = 6 // used only to reserve vertical room before measuring
)

// legendRows estimates how many rows the top legend needs at the given width.
func legendRows(labels []string, width int) int {
	if len(labels) == 0 {
		return 0
	}
	rows, x := 1, legendGap
	for _, l := range labels {
		w := legendSwatch + 4 + len(l)*approxCharW + legendGap
		if x+w > width && x > legendGap {
			rows++
			x = legendGap
		}
		x += w
	}
	return rows
}

// legendHeight is the vertical space reserved above the pie for the legend.
func legendHeight(labels []string, width int) int {
	return legendTop + legendRows(labels, width)*legendRowH + 8
}

// topLegend draws one swatch and label per value in rows across the top of the chart.
func topLegend(values []chart.Value, width int) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		r.SetFontSize(legendFontSize)
		r.SetFontColor(drawing.ColorFromHex("666666"))

		x, y := legendGap, legendTop
		for i, v := range values {
			tb := r.MeasureText(v.Label)
			w := legendSwatch + 4 + tb.Width() + legendGap
			if x+w > width && x > legendGap {
				x = legendGap
				y += legendRowH
			}

			r.SetFillColor(SliceFill(i))
			r.SetStrokeColor(SliceBorder(i))
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+legendSwatch, y)
			r.LineTo(x+legendSwatch, y+legendSwatch)
			r.LineTo(x, y+legendSwatch)
			r.Close()
			r.FillStroke()

			r.Text(v.Label, x+legendSwatch+4, y+legendSwatch)
			x += w
		}
	}
}
