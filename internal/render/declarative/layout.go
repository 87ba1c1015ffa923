// Package declarative derives a pie scene from a budget dataset and binds it
// to a vector surface. Every render recomputes the scene from scratch and
// replaces the surface children; nothing persists between renders.
package declarative

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/surface"
)

const (
	// Stroke is the outline drawn around every sector.
	Stroke      = "#ffffff"
	StrokeWidth = 2.0
	Opacity     = 0.7
	FontSize    = 12.0

	// EmptyMessage is shown in place of sectors for a degenerate dataset.
	EmptyMessage = "No budget data"
)

var (
	// ErrNoSurface means Render was called before the host supplied a vector surface.
	ErrNoSurface = errors.New("declarative: no vector surface")
	// ErrNilDataset means Render was called without a dataset.
	ErrNilDataset = errors.New("declarative: nil dataset")
)

// Arc is one slice's angular extent. Angles are radians measured clockwise
// from 12 o'clock.
type Arc struct {
	Index      int
	Slice      model.BudgetSlice
	StartAngle float64
	EndAngle   float64
}

// Span returns the arc's angular width.
func (a Arc) Span() float64 { return a.EndAngle - a.StartAngle }

// Pie lays out ds in insertion order. A degenerate dataset yields no arcs.
func Pie(ds *model.BudgetDataset) []Arc {
	if ds.Degenerate() {
		return nil
	}
	arcs := make([]Arc, ds.Len())
	angle := 0.0
	for i := 0; i < ds.Len(); i++ {
		span := ds.Share(i) * 2 * math.Pi
		arcs[i] = Arc{Index: i, Slice: ds.At(i), StartAngle: angle, EndAngle: angle + span}
		angle += span
	}
	// Close the turn exactly so rounding never leaves a hairline gap.
	arcs[len(arcs)-1].EndAngle = 2 * math.Pi
	return arcs
}

// Point is a position relative to the pie center, y growing downward.
type Point struct{ X, Y float64 }

// polar converts a clockwise-from-top angle and radius to a point.
func polar(angle, r float64) Point {
	return Point{X: r * math.Sin(angle), Y: -r * math.Cos(angle)}
}

// Centroid returns the midpoint of the arc between innerR and outerR.
func (a Arc) Centroid(innerR, outerR float64) Point {
	return polar((a.StartAngle+a.EndAngle)/2, (innerR+outerR)/2)
}

// Sector is a filled wedge node.
type Sector struct {
	Arc         Arc
	Radius      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Kind implements surface.Node.
func (Sector) Kind() string { return "sector" }

// Label is a centered text node.
type Label struct {
	Text     string
	At       Point
	FontSize float64
}

// Kind implements surface.Node.
func (Label) Kind() string { return "label" }

// Notice is the placeholder text node shown for degenerate datasets.
type Notice struct {
	Text string
}

// Kind implements surface.Node.
func (Notice) Kind() string { return "notice" }

// Scene is the complete visual derivation of one dataset.
type Scene struct {
	Width   int
	Height  int
	Radius  float64
	Sectors []Sector
	Labels  []Label
	Notice  *Notice
}

// Nodes flattens the scene in paint order: sectors, then labels.
func (s Scene) Nodes() []surface.Node {
	nodes := make([]surface.Node, 0, len(s.Sectors)+len(s.Labels)+1)
	for _, sec := range s.Sectors {
		nodes = append(nodes, sec)
	}
	for _, l := range s.Labels {
		nodes = append(nodes, l)
	}
	if s.Notice != nil {
		nodes = append(nodes, *s.Notice)
	}
	return nodes
}

// LabelText formats a sector label as "<title>: <budget>".
func LabelText(s model.BudgetSlice) string {
	return s.Title + ": " + strconv.FormatFloat(s.Budget, 'f', -1, 64)
}

// Layout derives the full scene for ds on a width x height surface.
func Layout(ds *model.BudgetDataset, width, height int) Scene {
	scene := Scene{
		Width:  width,
		Height: height,
		Radius: math.Min(float64(width), float64(height)) / 2,
	}

	arcs := Pie(ds)
	if len(arcs) == 0 {
		scene.Notice = &Notice{Text: EmptyMessage}
		return scene
	}

	color := NewOrdinalScale(ds.Titles(), Category10)
	scene.Sectors = make([]Sector, len(arcs))
	scene.Labels = make([]Label, len(arcs))
	for i, a := range arcs {
		scene.Sectors[i] = Sector{
			Arc:         a,
			Radius:      scene.Radius,
			Fill:        color.Color(a.Slice.Title),
			Stroke:      Stroke,
			StrokeWidth: StrokeWidth,
			Opacity:     Opacity,
		}
		scene.Labels[i] = Label{
			Text:     LabelText(a.Slice),
			At:       a.Centroid(0, scene.Radius),
			FontSize: FontSize,
		}
	}
	return scene
}

// Chart is the declarative backend. It keeps no handle, only a reference to
// the surface it binds into and the last scene it produced.
type Chart struct {
	surface *surface.Vector
	last    Scene
}

// New returns a backend binding into surf. surf may be nil until the host mounts one.
func New(surf *surface.Vector) *Chart {
	return &Chart{surface: surf}
}

// Mount replaces the vector surface, clearing the old one.
func (c *Chart) Mount(surf *surface.Vector) {
	c.Clear()
	c.surface = surf
}

// Render derives the scene for ds and replaces every child of the surface with it.
func (c *Chart) Render(ds *model.BudgetDataset) error {
	if c.surface == nil {
		return ErrNoSurface
	}
	if ds == nil {
		return ErrNilDataset
	}
	scene := Layout(ds, c.surface.Width(), c.surface.Height())
	c.surface.Replace(scene.Nodes())
	c.last = scene
	return nil
}

// Clear removes every child from the surface.
func (c *Chart) Clear() {
	if c.surface != nil {
		c.surface.Clear()
	}
	c.last = Scene{}
}

// Scene returns the most recently bound scene.
func (c *Chart) Scene() Scene { return c.last }

// Degrees converts a radian span to degrees, for display.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// String renders an arc for debugging.
func (a Arc) String() string {
	return fmt.Sprintf("%s %.1f°", a.Slice.Title, Degrees(a.Span()))
}
