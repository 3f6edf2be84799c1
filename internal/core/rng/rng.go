// Package rng provides the seeded random source injected into every engine
// that rolls dice, so combat and skilling outcomes replay deterministically
// under a fixed seed.
package rng

import "math/rand"

// RNG wraps math/rand.Rand behind the handful of roll shapes the engines use.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a random int in [0, n). n <= 0 returns 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Between returns a random int in [min, max]. Degenerate ranges return min.
func (r *RNG) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.src.Intn(max-min+1)
}

// Chance samples a Bernoulli trial with probability p, clamped to [0, 1].
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.src.Float64() < p
}

// Float64 returns a uniform sample in [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}
