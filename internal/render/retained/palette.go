package retained

import "github.com/wcharczuk/go-chart/v2/drawing"

// sliceColors is assigned by sequence position, never by title, so the same
// dataset always renders with the same colors.
var sliceColors = []drawing.Color{
	{R: 255, G: 99, B: 132, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
	{R: 255, G: 206, B: 86, A: 255},
	{R: 75, G: 192, B: 192, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
	{R: 255, G: 159, B: 64, A: 255},
}

const fillAlpha = 51 // 20% of 255

// SliceBorder returns the solid border color for position i.
func SliceBorder(i int) drawing.Color {
	return sliceColors[i%len(sliceColors)]
}

// SliceFill returns the translucent fill color for position i.
func SliceFill(i int) drawing.Color {
	return SliceBorder(i).WithAlpha(fillAlpha)
}
