package declarative

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/theirongolddev/budgetview/internal/surface"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgsvg"
)

var fonts = font.NewCache(liberation.Collection())

var sansFont = font.Font{Typeface: "Liberation", Variant: "Sans"}

// EncodeSVG paints the vector surface's current children to w as SVG.
// Nodes are painted in the order they were bound.
func EncodeSVG(surf *surface.Vector, w io.Writer) error {
	width, height := vg.Length(surf.Width()), vg.Length(surf.Height())
	c := vgsvg.New(width, height)

	center := vg.Point{X: width / 2, Y: height / 2}
	for _, n := range surf.Nodes() {
		switch node := n.(type) {
		case Sector:
			drawSector(c, center, node)
		case Label:
			drawText(c, toCanvas(center, node.At), node.Text, node.FontSize)
		case Notice:
			drawText(c, center, node.Text, FontSize)
		default:
			return fmt.Errorf("declarative: cannot encode %s node", n.Kind())
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("declarative: writing svg: %w", err)
	}
	return nil
}

// toCanvas maps a center-relative, y-down point onto the canvas, which is y-up.
func toCanvas(center vg.Point, p Point) vg.Point {
	return vg.Point{X: center.X + vg.Length(p.X), Y: center.Y - vg.Length(p.Y)}
}

func drawSector(c vg.Canvas, center vg.Point, s Sector) {
	r := vg.Length(s.Radius)
	var p vg.Path
	if s.Arc.Span() >= 2*math.Pi-1e-9 {
		// A single full-turn slice is a circle; an arc path would collapse.
		p.Move(vg.Point{X: center.X + r, Y: center.Y})
		p.Arc(center, r, 0, 2*math.Pi)
	} else {
		// Clockwise-from-top converts to the canvas's counterclockwise-from-x
		// convention as phi = pi/2 - theta, sweeping negatively.
		start := math.Pi/2 - s.Arc.StartAngle
		p.Move(center)
		p.Line(toCanvas(center, polar(s.Arc.StartAngle, s.Radius)))
		p.Arc(center, r, start, -s.Arc.Span())
	}
	p.Close()

	c.SetColor(withOpacity(s.Fill, s.Opacity))
	c.Fill(p)

	c.SetColor(drawing.ColorFromHex(trimHash(s.Stroke)))
	c.SetLineWidth(vg.Length(s.StrokeWidth))
	c.Stroke(p)
}

func drawText(c vg.Canvas, at vg.Point, text string, size float64) {
	face := fonts.Lookup(sansFont, vg.Points(size))
	c.SetColor(color.Black)
	// Center horizontally and roughly vertically on the anchor point.
	pt := vg.Point{
		X: at.X - face.Width(text)/2,
		Y: at.Y - vg.Points(size)/3,
	}
	c.FillString(face, pt, text)
}

func withOpacity(hex string, opacity float64) color.Color {
	col := drawing.ColorFromHex(trimHash(hex))
	a := uint8(math.Round(opacity * 255))
	// Premultiply for color.RGBA.
	return color.RGBA{
		R: uint8(uint16(col.R) * uint16(a) / 255),
		G: uint8(uint16(col.G) * uint16(a) / 255),
		B: uint8(uint16(col.B) * uint16(a) / 255),
		A: a,
	}
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
