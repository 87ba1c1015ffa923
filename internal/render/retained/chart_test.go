package retained

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(t *testing.T, slices ...model.BudgetSlice) *model.BudgetDataset {
	t.Helper()
	ds, err := model.NewDataset(slices)
	require.NoError(t, err)
	return ds
}

func TestRenderBuildsOneSectorPerSlice(t *testing.T) {
	surf := surface.NewBitmap(400, 400)
	c := New(surf)

	ds := dataset(t,
		model.BudgetSlice{Title: "Food", Budget: 300},
		model.BudgetSlice{Title: "Rent", Budget: 700},
		model.BudgetSlice{Title: "Fun", Budget: 50},
	)
	require.NoError(t, c.Render(ds))

	h := c.Handle()
	require.NotNil(t, h)
	assert.Equal(t, 3, h.Slices())
	assert.Equal(t, 3, h.Entries())
	assert.False(t, h.Placeholder())
	assert.Equal(t, h.ID(), surf.Owner())

	img, err := png.Decode(bytes.NewReader(surf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestZeroBudgetSliceIsLegendOnly(t *testing.T) {
	surf := surface.NewBitmap(400, 400)
	c := New(surf)

	ds := dataset(t,
		model.BudgetSlice{Title: "A", Budget: 5},
		model.BudgetSlice{Title: "Z", Budget: 0},
		model.BudgetSlice{Title: "B", Budget: 5},
	)
	require.NoError(t, c.Render(ds))

	h := c.Handle()
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Slices(), "go-chart draws no sector for a zero value")
	assert.Equal(t, 3, h.Entries(), "every category keeps its legend entry")
	assert.False(t, h.Placeholder())

	_, err := png.Decode(bytes.NewReader(surf.Bytes()))
	assert.NoError(t, err)
}

func TestRerenderDestroysBeforeCreate(t *testing.T) {
	surf := surface.NewBitmap(300, 300)
	c := New(surf)
	ds := dataset(t, model.BudgetSlice{Title: "Food", Budget: 1})

	require.NoError(t, c.Render(ds))
	first := c.Handle()

	require.NoError(t, c.Render(ds))
	second := c.Handle()

	assert.NotSame(t, first, second)
	assert.False(t, first.Live(), "previous handle must be destroyed")
	assert.True(t, second.Live())
	assert.Equal(t, second.ID(), surf.Owner(), "only the new handle may own the surface")
	assert.Equal(t, 2, surf.Binds())
	assert.Equal(t, 2, c.Renders())
}

func TestDegenerateDatasetRendersPlaceholder(t *testing.T) {
	for name, ds := range map[string]*model.BudgetDataset{
		"empty":    dataset(t),
		"all-zero": dataset(t, model.BudgetSlice{Title: "A"}, model.BudgetSlice{Title: "B"}),
	} {
		t.Run(name, func(t *testing.T) {
			surf := surface.NewBitmap(200, 200)
			c := New(surf)
			require.NoError(t, c.Render(ds))

			h := c.Handle()
			require.NotNil(t, h)
			assert.True(t, h.Placeholder())
			assert.Equal(t, 0, h.Slices())
			assert.Equal(t, 0, h.Entries())

			_, err := png.Decode(bytes.NewReader(surf.Bytes()))
			assert.NoError(t, err)
		})
	}
}

func TestDestroyReleasesSurface(t *testing.T) {
	surf := surface.NewBitmap(200, 200)
	c := New(surf)
	require.NoError(t, c.Render(dataset(t, model.BudgetSlice{Title: "A", Budget: 1})))

	c.Destroy()
	assert.Nil(t, c.Handle())
	assert.False(t, surf.Bound())
	assert.Empty(t, surf.Bytes())

	c.Destroy() // idempotent
}

func TestRenderPreconditions(t *testing.T) {
	assert.ErrorIs(t, New(nil).Render(dataset(t)), ErrNoSurface)
	assert.ErrorIs(t, New(surface.NewBitmap(10, 10)).Render(nil), ErrNilDataset)
}

func TestRenderFailsWhenSurfaceOwnedElsewhere(t *testing.T) {
	surf := surface.NewBitmap(200, 200)
	require.NoError(t, surf.Bind(999_999))

	err := New(surf).Render(dataset(t, model.BudgetSlice{Title: "A", Budget: 1}))
	assert.ErrorIs(t, err, surface.ErrBusy)
}

func TestPaletteIsPositional(t *testing.T) {
	assert.Equal(t, SliceBorder(0), SliceBorder(6))
	assert.NotEqual(t, SliceBorder(0), SliceBorder(1))
	assert.EqualValues(t, fillAlpha, SliceFill(3).A)
}

func TestLegendRowsWrap(t *testing.T) {
	assert.Equal(t, 0, legendRows(nil, 400))
	assert.Equal(t, 1, legendRows([]string{"Food", "Rent"}, 400))
	assert.Greater(t, legendRows([]string{"Groceries and household", "Transportation costs", "Entertainment", "Insurance"}, 200), 1)
}
