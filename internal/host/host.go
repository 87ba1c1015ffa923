// Package host allocates the surfaces a chart sync panel renders into and
// exports what they hold.
package host

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/budgetview/internal/panel"
	"github.com/theirongolddev/budgetview/internal/render/declarative"
	"github.com/theirongolddev/budgetview/internal/render/retained"
	"github.com/theirongolddev/budgetview/internal/surface"
)

// File names written by Snapshot.Write.
const (
	RetainedFile    = "retained.png"
	DeclarativeFile = "declarative.svg"
)

// Host owns one panel and the two surfaces mounted for it.
type Host struct {
	Bitmap      *surface.Bitmap
	Vector      *surface.Vector
	Retained    *retained.Chart
	Declarative *declarative.Chart
	Panel       *panel.Panel
}

// New mounts a width x height bitmap and vector surface and builds a panel
// fetching through f.
func New(f panel.Fetcher, width, height int, logger *slog.Logger) *Host {
	h := &Host{
		Bitmap: surface.NewBitmap(width, height),
		Vector: surface.NewVector(width, height),
	}
	h.Retained = retained.New(h.Bitmap)
	h.Declarative = declarative.New(h.Vector)
	h.Panel = panel.New(f, h.Retained, h.Declarative, logger)
	return h
}

// Load activates the panel and runs its fetch on the calling goroutine.
// It is for hosts without an event loop.
func (h *Host) Load(ctx context.Context) error {
	return h.Panel.Commit(h.Panel.Activate(ctx)())
}

// Snapshot is an encoded copy of both surfaces.
type Snapshot struct {
	PNG []byte
	SVG []byte
}

// Snapshot encodes the current surface contents. It must run on the goroutine
// driving the panel; the result may be written from anywhere.
func (h *Host) Snapshot() (Snapshot, error) {
	var svg bytes.Buffer
	if err := declarative.EncodeSVG(h.Vector, &svg); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{PNG: h.Bitmap.Bytes(), SVG: svg.Bytes()}, nil
}

// Write stores the snapshot under dir and returns the written paths. An
// empty bitmap is skipped.
func (s Snapshot) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var paths []string
	write := func(name string, data []byte) error {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		paths = append(paths, p)
		return nil
	}

	if len(s.PNG) > 0 {
		if err := write(RetainedFile, s.PNG); err != nil {
			return paths, err
		}
	}
	if err := write(DeclarativeFile, s.SVG); err != nil {
		return paths, err
	}
	return paths, nil
}

// Close deactivates the panel, releasing both surfaces.
func (h *Host) Close() {
	h.Panel.Deactivate()
}
