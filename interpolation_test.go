package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTable1DLookup exercises interior interpolation and edge clamping.
func TestTable1DLookup(t *testing.T) {
	tbl := NewTable1D([]float64{0, 10, 20}, []float64{0, 100, 100})

	t.Run("exact breakpoint", func(t *testing.T) {
		assert.Equal(t, 100.0, tbl.Lookup(10))
	})
	t.Run("interior interpolation", func(t *testing.T) {
		assert.InDelta(t, 50.0, tbl.Lookup(5), 1e-9)
	})
	t.Run("clamps below domain", func(t *testing.T) {
		assert.Equal(t, 0.0, tbl.Lookup(-5))
	})
	t.Run("clamps above domain", func(t *testing.T) {
		assert.Equal(t, 100.0, tbl.Lookup(30))
	})
}

// TestTable1DSinglePoint checks the degenerate one-breakpoint case.
func TestTable1DSinglePoint(t *testing.T) {
	tbl := NewTable1D([]float64{5}, []float64{42})
	assert.Equal(t, 42.0, tbl.Lookup(0))
	assert.Equal(t, 42.0, tbl.Lookup(100))
}

// TestTable2DLookup exercises bilinear interpolation and edge clamping on
// both axes.
func TestTable2DLookup(t *testing.T) {
	tbl := &Table2D{
		Rows: []float64{0, 10},
		Cols: []float64{0, 10},
		Data: [][]float64{
			{0, 10},
			{20, 30},
		},
	}

	t.Run("corner values", func(t *testing.T) {
		assert.Equal(t, 0.0, tbl.Lookup(0, 0))
		assert.Equal(t, 30.0, tbl.Lookup(10, 10))
	})
	t.Run("center is the average of all four corners", func(t *testing.T) {
		assert.InDelta(t, 15.0, tbl.Lookup(5, 5), 1e-9)
	})
	t.Run("clamps outside both axes", func(t *testing.T) {
		assert.Equal(t, 0.0, tbl.Lookup(-5, -5))
		assert.Equal(t, 30.0, tbl.Lookup(50, 50))
	})
}
