package main

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSource is the seeded RNG owned by the Winds component. Never a
// global: turbulence runs must be reproducible from the seed alone. It is
// thread-unsafe by design; the engine is single-threaded.
type RandomSource struct {
	src     *rand.Rand
	uniform distuv.Uniform
	normal  distuv.Normal
}

// NewRandomSource builds a reproducible RNG from seed, producing uniform
// draws in [0, 1) and zero-mean/unit-variance Gaussian draws.
func NewRandomSource(seed uint64) *RandomSource {
	src := rand.New(rand.NewSource(seed))
	return &RandomSource{
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
		normal:  distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Uniform returns the next draw in [0, 1).
func (r *RandomSource) Uniform() float64 {
	return r.uniform.Rand()
}

// Gaussian returns the next zero-mean, unit-variance draw.
func (r *RandomSource) Gaussian() float64 {
	return r.normal.Rand()
}

// Reseed reinitializes the stream from a new seed, for deterministic replay
// of a turbulence run from a known starting point.
func (r *RandomSource) Reseed(seed uint64) {
	r.src.Seed(seed)
}
