package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSolveLinearRoot exercises the shared bracket-then-regula-falsi solver
// against a trivial linear function with a known root.
func TestSolveLinearRoot(t *testing.T) {
	f := func(x float64) float64 { return x - 3.0 }
	cfg := DefaultICSolveConfig(-100, 100)

	t.Run("converges from a nearby guess", func(t *testing.T) {
		root, err := Solve(f, 2.5, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, root, 1e-4)
	})

	t.Run("converges from a distant guess", func(t *testing.T) {
		root, err := Solve(f, -80, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, root, 1e-4)
	})
}

// TestSolveNonlinearRoot checks a transcendental function typical of the IC
// angle-triad invariant (sin-based).
func TestSolveNonlinearRoot(t *testing.T) {
	f := func(x float64) float64 { return math.Sin(x) - 0.5 }
	cfg := DefaultICSolveConfig(0, math.Pi/2)

	root, err := Solve(f, 0.1, cfg)
	require.NoError(t, err)
	assert.InDelta(t, math.Asin(0.5), root, 1e-3)
}

// TestSolveNoRootReturnsErrNoSolution checks the failure path: a function
// with no sign change inside the declared bound must not silently return a
// wrong root.
func TestSolveNoRootReturnsErrNoSolution(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 } // never zero
	cfg := DefaultICSolveConfig(-10, 10)
	cfg.MaxExpansions = 5

	_, err := Solve(f, 0, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSolution))
}
