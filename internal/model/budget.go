// Package model defines the budget data shared by the fetch client and both chart backends.
package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSlice is returned when a slice carries a negative or non-finite budget.
var ErrInvalidSlice = errors.New("invalid budget slice")

// BudgetSlice is one category's label and allocated amount.
type BudgetSlice struct {
	Title  string  `json:"title"`
	Budget float64 `json:"budget"`
}

// Validate rejects negative and non-finite budgets.
func (s BudgetSlice) Validate() error {
	if math.IsNaN(s.Budget) || math.IsInf(s.Budget, 0) || s.Budget < 0 {
		return fmt.Errorf("%w: %q has budget %v", ErrInvalidSlice, s.Title, s.Budget)
	}
	return nil
}

// BudgetDataset is the ordered, immutable collection of slices produced by one fetch.
// Insertion order is display and legend order. Titles are not required to be unique.
type BudgetDataset struct {
	slices []BudgetSlice
	total  float64
}

// NewDataset copies slices into a new dataset after validating every budget
// and the total.
func NewDataset(slices []BudgetSlice) (*BudgetDataset, error) {
	ds := &BudgetDataset{slices: make([]BudgetSlice, len(slices))}
	for i, s := range slices {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		ds.slices[i] = s
		ds.total += s.Budget
	}
	if math.IsInf(ds.total, 0) {
		return nil, fmt.Errorf("%w: budgets sum to %v", ErrInvalidSlice, ds.total)
	}
	return ds, nil
}

// Len returns the number of slices.
func (d *BudgetDataset) Len() int {
	return len(d.slices)
}

// At returns the slice at position i.
func (d *BudgetDataset) At(i int) BudgetSlice {
	return d.slices[i]
}

// Slices returns a copy of the slices in insertion order.
func (d *BudgetDataset) Slices() []BudgetSlice {
	out := make([]BudgetSlice, len(d.slices))
	copy(out, d.slices)
	return out
}

// Titles returns the slice titles in insertion order.
func (d *BudgetDataset) Titles() []string {
	out := make([]string, len(d.slices))
	for i, s := range d.slices {
		out[i] = s.Title
	}
	return out
}

// Budgets returns the slice budgets in insertion order.
func (d *BudgetDataset) Budgets() []float64 {
	out := make([]float64, len(d.slices))
	for i, s := range d.slices {
		out[i] = s.Budget
	}
	return out
}

// Total returns the sum of all budgets.
func (d *BudgetDataset) Total() float64 {
	return d.total
}

// Degenerate reports whether a proportional layout is undefined:
// the dataset is empty or every budget is zero.
func (d *BudgetDataset) Degenerate() bool {
	return len(d.slices) == 0 || d.total <= 0
}

// Share returns slice i's fraction of the total, or 0 for a degenerate dataset.
func (d *BudgetDataset) Share(i int) float64 {
	if d.Degenerate() {
		return 0
	}
	return d.slices[i].Budget / d.total
}
