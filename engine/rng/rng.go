// Package rng provides the single seeded random source shared by every
// engine component.
package rng

import "math/rand"

// Source is the set of draws the engine components consume. *RNG is the
// production implementation; tests substitute a scripted one.
type Source interface {
	// Intn returns a value in [0, n). n <= 0 yields 0.
	Intn(n int) int
	// Range returns a value in [lo, hi], both inclusive.
	Range(lo, hi int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// countingSource counts every draw from the underlying source so the exact
// generator state can be reproduced from (seed, draws).
type countingSource struct {
	src   rand.Source
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw source draws, enabling save/restore.
type RNG struct {
	seed    int64
	counter *countingSource
	src     *rand.Rand
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	counter := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed:    seed,
		counter: counter,
		src:     rand.New(counter),
	}
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Range returns a random integer in [lo, hi].
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Float64 returns a random float in [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Seed returns the seed the RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.counter.draws
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.counter.Int63()
	}
	return r
}
