package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset_CopiesInput(t *testing.T) {
	in := []BudgetSlice{{Title: "Food", Budget: 300}, {Title: "Rent", Budget: 700}}
	ds, err := NewDataset(in)
	require.NoError(t, err)

	in[0].Budget = 9999
	assert.Equal(t, 300.0, ds.At(0).Budget, "dataset must not alias caller slice")

	out := ds.Slices()
	out[1].Title = "Mutated"
	assert.Equal(t, "Rent", ds.At(1).Title, "Slices must return a copy")

	assert.Equal(t, 1000.0, ds.Total())
	assert.Equal(t, []string{"Food", "Rent"}, ds.Titles())
	assert.Equal(t, []float64{300, 700}, ds.Budgets())
	assert.InDelta(t, 0.3, ds.Share(0), 1e-12)
}

func TestNewDataset_RejectsInvalidBudgets(t *testing.T) {
	for _, b := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := NewDataset([]BudgetSlice{{Title: "Bad", Budget: b}})
		assert.ErrorIs(t, err, ErrInvalidSlice, "budget %v", b)
	}
}

func TestNewDataset_RejectsInfiniteTotal(t *testing.T) {
	ds, err := NewDataset([]BudgetSlice{{Title: "A", Budget: 1e308}, {Title: "B", Budget: 1e308}})
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrInvalidSlice)

	ds, err = NewDataset([]BudgetSlice{{Title: "A", Budget: 1e307}, {Title: "B", Budget: 1e307}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ds.Share(0), 1e-12)
}

func TestDegenerate(t *testing.T) {
	empty, err := NewDataset(nil)
	require.NoError(t, err)
	assert.True(t, empty.Degenerate())
	assert.Equal(t, 0, empty.Len())

	zero, err := NewDataset([]BudgetSlice{{Title: "A"}, {Title: "B"}})
	require.NoError(t, err)
	assert.True(t, zero.Degenerate())
	assert.Equal(t, 0.0, zero.Share(1))

	ok, err := NewDataset([]BudgetSlice{{Title: "A", Budget: 1}, {Title: "B"}})
	require.NoError(t, err)
	assert.False(t, ok.Degenerate())
}
