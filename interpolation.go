package main

import "sort"

// Table1D is an ordered set of (x, y) breakpoints interpolated linearly,
// clamped at the edges rather than extrapolated. Decoupled from any XML
// schema so the atmosphere and winds components can build one from a
// literal breakpoint list.
type Table1D struct {
	X []float64
	Y []float64
}

// NewTable1D builds a Table1D from parallel x/y slices. x must already be
// sorted ascending; no sort is performed here.
func NewTable1D(x, y []float64) *Table1D {
	return &Table1D{X: append([]float64(nil), x...), Y: append([]float64(nil), y...)}
}

// Lookup returns the linearly interpolated value at x, clamping to the
// first/last breakpoint outside the table's domain.
func (t *Table1D) Lookup(x float64) float64 {
	n := len(t.X)
	if n == 0 {
		return 0
	}
	if n == 1 || x <= t.X[0] {
		return t.Y[0]
	}
	if x >= t.X[n-1] {
		return t.Y[n-1]
	}
	i := sort.SearchFloat64s(t.X, x)
	if t.X[i] == x {
		return t.Y[i]
	}
	lo, hi := i-1, i
	span := t.X[hi] - t.X[lo]
	if span == 0 {
		return t.Y[lo]
	}
	frac := (x - t.X[lo]) / span
	return t.Y[lo] + frac*(t.Y[hi]-t.Y[lo])
}

// Table2D is a row/column breakpoint grid, bilinearly interpolated and
// clamped at the edges on both axes.
type Table2D struct {
	Rows []float64   // row breakpoints (first independent variable)
	Cols []float64   // column breakpoints (second independent variable)
	Data [][]float64 // Data[row][col]
}

func clampIndex(breakpoints []float64, x float64) (lo, hi int, frac float64) {
	n := len(breakpoints)
	if n == 1 {
		return 0, 0, 0
	}
	if x <= breakpoints[0] {
		return 0, 1, 0
	}
	if x >= breakpoints[n-1] {
		return n - 2, n - 1, 1
	}
	i := sort.SearchFloat64s(breakpoints, x)
	if breakpoints[i] == x {
		return i, i, 0
	}
	lo, hi = i-1, i
	span := breakpoints[hi] - breakpoints[lo]
	if span == 0 {
		return lo, hi, 0
	}
	return lo, hi, (x - breakpoints[lo]) / span
}

// Lookup bilinearly interpolates Data at (row, col), clamping at the table
// edges on both axes.
func (t *Table2D) Lookup(row, col float64) float64 {
	if len(t.Rows) == 0 || len(t.Cols) == 0 {
		return 0
	}
	rLo, rHi, rFrac := clampIndex(t.Rows, row)
	cLo, cHi, cFrac := clampIndex(t.Cols, col)

	v00 := t.Data[rLo][cLo]
	v01 := t.Data[rLo][cHi]
	v10 := t.Data[rHi][cLo]
	v11 := t.Data[rHi][cHi]

	v0 := v00 + cFrac*(v01-v00)
	v1 := v10 + cFrac*(v11-v10)
	return v0 + rFrac*(v1-v0)
}
