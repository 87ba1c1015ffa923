// Package retained renders a budget dataset through a persistent go-chart pie
// object bound to a bitmap surface. Each rendering is owned by a Handle that
// must be destroyed before another can bind the same surface.
package retained

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/surface"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Caption is the static title drawn above the retained rendering.
const Caption = "Budget Distribution - go-chart"

var (
	// ErrNoSurface means Render was called before the host supplied a bitmap.
	ErrNoSurface = errors.New("retained: no bitmap surface")
	// ErrNilDataset means Render was called without a dataset.
	ErrNilDataset = errors.New("retained: nil dataset")
)

var handleSeq atomic.Uint64

// Handle is one live retained chart instance. It exclusively owns its
// surface binding until Destroy.
type Handle struct {
	id      uint64
	pie     *chart.PieChart
	surface *surface.Bitmap
	slices  int
	entries int
	dead    bool
}

// ID returns the handle's surface owner id.
func (h *Handle) ID() uint64 { return h.id }

// Slices returns the number of sectors actually drawn. go-chart skips values
// that are not positive, so zero-budget categories are not counted.
func (h *Handle) Slices() int { return h.slices }

// Entries returns the number of legend entries, one per dataset slice.
// Zero-budget categories appear in the legend only.
func (h *Handle) Entries() int { return h.entries }

// Placeholder reports whether the handle renders the "no data" state.
func (h *Handle) Placeholder() bool { return h.pie == nil }

// Live reports whether Destroy has not yet been called.
func (h *Handle) Live() bool { return !h.dead }

// Destroy releases the surface binding and drops the chart object. Safe to call twice.
func (h *Handle) Destroy() {
	if h.dead {
		return
	}
	h.dead = true
	h.surface.Unbind(h.id)
	h.pie = nil
}

// newHandle binds surf, builds the chart for ds and paints it. On any error
// the binding is released before returning.
func newHandle(surf *surface.Bitmap, ds *model.BudgetDataset) (*Handle, error) {
	h := &Handle{id: handleSeq.Add(1), surface: surf}
	if err := surf.Bind(h.id); err != nil {
		return nil, err
	}

	var (
		encoded []byte
		err     error
	)
	if ds.Degenerate() {
		encoded, err = renderPlaceholder(surf.Width(), surf.Height())
	} else {
		h.pie = buildPie(ds, surf.Width(), surf.Height())
		h.entries = len(h.pie.Values)
		h.slices = len(chart.Values(h.pie.Values).Normalize())
		encoded, err = renderPie(h.pie)
	}
	if err == nil {
		err = surf.Paint(h.id, encoded)
	}
	if err != nil {
		h.Destroy()
		return nil, fmt.Errorf("retained: painting chart: %w", err)
	}
	return h, nil
}

func buildPie(ds *model.BudgetDataset, width, height int) *chart.PieChart {
	values := make([]chart.Value, ds.Len())
	labels := make([]string, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		s := ds.At(i)
		labels[i] = s.Title
		values[i] = chart.Value{
			Label: s.Title,
			Value: s.Budget,
			Style: chart.Style{
				FillColor:   SliceFill(i),
				StrokeColor: SliceBorder(i),
				StrokeWidth: 1,
				FontColor:   drawing.ColorFromHex("333333"),
			},
		}
	}

	return &chart.PieChart{
		Title:  Caption,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: legendHeight(labels, width), Left: 10, Right: 10, Bottom: 10},
		},
		Values:   values,
		Elements: []chart.Renderable{topLegend(values, width)},
	}
}

func renderPie(pie *chart.PieChart) ([]byte, error) {
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPlaceholder paints the explicit "no data" state for degenerate datasets.
func renderPlaceholder(width, height int) ([]byte, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.FillStroke()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorFromHex("666666"))
	r.SetFontSize(12)
	title := r.MeasureText(Caption)
	r.Text(Caption, (width-title.Width())/2, 24)

	msg := "No budget data"
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, height/2)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Chart is the retained backend. It holds at most one live Handle.
type Chart struct {
	surface *surface.Bitmap
	handle  *Handle
	renders int
}

// New returns a backend drawing onto surf. surf may be nil until the host mounts one.
func New(surf *surface.Bitmap) *Chart {
	return &Chart{surface: surf}
}

// Mount replaces the bitmap surface, destroying any handle bound to the old one.
func (c *Chart) Mount(surf *surface.Bitmap) {
	c.Destroy()
	c.surface = surf
}

// Render destroys the current handle, then builds a new one for ds.
func (c *Chart) Render(ds *model.BudgetDataset) error {
	if c.surface == nil {
		return ErrNoSurface
	}
	if ds == nil {
		return ErrNilDataset
	}

	c.Destroy()

	h, err := newHandle(c.surface, ds)
	if err != nil {
		return err
	}
	c.handle = h
	c.renders++
	return nil
}

// Destroy releases the live handle, if any.
func (c *Chart) Destroy() {
	if c.handle == nil {
		return
	}
	c.handle.Destroy()
	c.handle = nil
}

// Handle returns the live handle, or nil.
func (c *Chart) Handle() *Handle { return c.handle }

// Renders returns how many handles this backend has created.
func (c *Chart) Renders() int { return c.renders }
