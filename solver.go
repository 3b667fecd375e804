package main

import (
	"fmt"
	"math"
)

// SolveConfig bounds a single root-find. The same callable-driven solver
// serves the IC solver's implicit equations and the trim engine's
// per-axis loop.
type SolveConfig struct {
	Min, Max      float64 // caller-declared bound the bracket may not cross
	MaxExpansions int     // bracket-growth cap
	Relaxation    float64 // Illinois-style relaxation applied to the stale endpoint
	FTol          float64 // |f(x)| convergence tolerance
	XTol          float64 // interval-width convergence tolerance
	MaxIterations int     // regula-falsi iteration cap
}

// bracket is a sign-changing interval: f(Lo) and f(Hi) have opposite signs
// (or one of them is exactly zero).
type bracket struct {
	Lo, Hi   float64
	FLo, FHi float64
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// findBracket expands symmetrically outward from guess by a geometrically
// growing step until f changes sign across the interval or the search hits
// cfg.Min/cfg.Max.
func findBracket(f func(float64) float64, guess float64, cfg SolveConfig) (bracket, bool) {
	f0 := f(guess)
	if f0 == 0 {
		return bracket{guess, guess, 0, 0}, true
	}

	span := cfg.Max - cfg.Min
	step := span * 1e-4
	if step <= 0 {
		step = 1e-6
	}

	for i := 0; i < cfg.MaxExpansions; i++ {
		step *= 1.6
		lo := math.Max(guess-step, cfg.Min)
		hi := math.Min(guess+step, cfg.Max)
		flo := f(lo)
		fhi := f(hi)
		if signOf(flo) == 0 {
			return bracket{lo, lo, flo, flo}, true
		}
		if signOf(fhi) == 0 {
			return bracket{hi, hi, fhi, fhi}, true
		}
		if signOf(flo) != signOf(fhi) {
			return bracket{lo, hi, flo, fhi}, true
		}
		if lo <= cfg.Min && hi >= cfg.Max {
			break
		}
	}
	return bracket{}, false
}

// regulaFalsi is the modified (Illinois) regula-falsi inner loop:
// relaxation of cfg.Relaxation applied to the endpoint whose
// sign did not change, terminating on |f| <= cfg.FTol or interval width
// <= cfg.XTol, capped at cfg.MaxIterations.
func regulaFalsi(f func(float64) float64, b bracket, cfg SolveConfig) (root float64, converged bool) {
	lo, hi := b.Lo, b.Hi
	flo, fhi := b.FLo, b.FHi
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		if hi-lo <= cfg.XTol {
			return 0.5 * (lo + hi), true
		}
		x := hi - fhi*(hi-lo)/(fhi-flo)
		fx := f(x)
		if math.Abs(fx) <= cfg.FTol {
			return x, true
		}
		if signOf(fx) == signOf(flo) {
			lo, flo = x, fx
			fhi *= cfg.Relaxation
		} else {
			hi, fhi = x, fx
			flo *= cfg.Relaxation
		}
	}
	return 0.5 * (lo + hi), false
}

// Solve finds a root of f near guess within [cfg.Min, cfg.Max], bracketing
// first and then running the shared regula-falsi inner loop. It returns
// ErrNoSolution, wrapped with a short description, if bracketing or
// convergence fails. On this path the IC solver's setters restore the
// values they changed; the trim engine keeps the last control value it
// probed.
func Solve(f func(float64) float64, guess float64, cfg SolveConfig) (float64, error) {
	b, ok := findBracket(f, guess, cfg)
	if !ok {
		return 0, fmt.Errorf("bracket expansion exhausted within [%g, %g]: %w", cfg.Min, cfg.Max, ErrNoSolution)
	}
	root, converged := regulaFalsi(f, b, cfg)
	if !converged {
		return 0, fmt.Errorf("regula-falsi did not converge within %d iterations: %w", cfg.MaxIterations, ErrNoSolution)
	}
	return root, nil
}

// DefaultICSolveConfig returns the standard tolerances and caps for a
// solve bounded by [min, max].
func DefaultICSolveConfig(min, max float64) SolveConfig {
	return SolveConfig{
		Min:           min,
		Max:           max,
		MaxExpansions: 100,
		Relaxation:    0.9,
		FTol:          1e-3,
		XTol:          1e-5,
		MaxIterations: 100,
	}
}
