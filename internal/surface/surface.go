// Package surface provides the mount targets a host hands to the chart backends.
// A Bitmap holds encoded raster output owned by at most one live chart handle;
// a Vector holds the node tree of a declarative rendering.
package surface

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrBusy means a second handle tried to bind an already bound bitmap.
	ErrBusy = errors.New("surface: bitmap already bound")
	// ErrNotOwner means a handle touched a bitmap it does not own.
	ErrNotOwner = errors.New("surface: not the bound owner")
)

// Bitmap is a raster mount target. Only one owner may be bound at a time.
type Bitmap struct {
	width  int
	height int

	owner  uint64 // 0 = unbound
	pixels []byte // encoded PNG
	binds  int
}

// NewBitmap returns an unbound bitmap of the given size.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{width: width, height: height}
}

// Width returns the surface width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the surface height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Bind attaches owner to the bitmap.
func (b *Bitmap) Bind(owner uint64) error {
	if owner == 0 {
		return errors.New("surface: owner id must be non-zero")
	}
	if b.owner != 0 {
		return fmt.Errorf("%w (owner %d)", ErrBusy, b.owner)
	}
	b.owner = owner
	b.binds++
	return nil
}

// Paint replaces the bitmap contents. Only the bound owner may paint.
func (b *Bitmap) Paint(owner uint64, encoded []byte) error {
	if b.owner == 0 || b.owner != owner {
		return ErrNotOwner
	}
	b.pixels = append(b.pixels[:0], encoded...)
	return nil
}

// Unbind detaches owner and clears the pixels. Unbinding a non-owner is a no-op.
func (b *Bitmap) Unbind(owner uint64) {
	if b.owner != owner {
		return
	}
	b.owner = 0
	b.pixels = nil
}

// Bound reports whether a handle currently owns the bitmap.
func (b *Bitmap) Bound() bool { return b.owner != 0 }

// Owner returns the bound owner id, or 0.
func (b *Bitmap) Owner() uint64 { return b.owner }

// Binds returns how many times the bitmap has been bound over its lifetime.
func (b *Bitmap) Binds() int { return b.binds }

// Bytes returns a copy of the encoded contents.
func (b *Bitmap) Bytes() []byte {
	return bytes.Clone(b.pixels)
}

// WriteTo writes the encoded contents to w.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.pixels)
	return int64(n), err
}

// Node is one visual child of a Vector surface.
type Node interface {
	// Kind names the node type, e.g. "sector" or "label".
	Kind() string
}

// Vector is a scalable mount target whose children are replaced wholesale.
type Vector struct {
	width  int
	height int

	nodes      []Node
	generation int
}

// NewVector returns an empty vector surface of the given size.
func NewVector(width, height int) *Vector {
	return &Vector{width: width, height: height}
}

// Width returns the surface width.
func (v *Vector) Width() int { return v.width }

// Height returns the surface height.
func (v *Vector) Height() int { return v.height }

// Replace drops every existing child and installs nodes in their place.
func (v *Vector) Replace(nodes []Node) {
	v.nodes = make([]Node, len(nodes))
	copy(v.nodes, nodes)
	v.generation++
}

// Clear removes every child.
func (v *Vector) Clear() {
	if len(v.nodes) == 0 {
		return
	}
	v.nodes = nil
	v.generation++
}

// Nodes returns a copy of the current children.
func (v *Vector) Nodes() []Node {
	out := make([]Node, len(v.nodes))
	copy(out, v.nodes)
	return out
}

// Count returns the number of children of the given kind.
func (v *Vector) Count(kind string) int {
	n := 0
	for _, node := range v.nodes {
		if node.Kind() == kind {
			n++
		}
	}
	return n
}

// Generation increments on every Replace or non-empty Clear.
func (v *Vector) Generation() int { return v.generation }
