package bsp

import "math/rand/v2"

// Rand is the random stream consumed by splitting and corridor placement.
// A single Rand is threaded through a whole generation pass so that a fixed
// sequence of draws always yields the same layout.
//
// *rand.Rand from math/rand/v2 satisfies this interface.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a PCG-backed source seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// between returns a uniform integer in [lo, hi). hi must be greater than lo.
func between(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}
