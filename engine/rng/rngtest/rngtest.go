// Package rngtest provides a scripted rng.Source for forcing specific
// branches in tests.
package rngtest

// Scripted replays queued values. Intn and Range share the Ints queue in
// call order; Float64 pops from Floats. Values are clamped into the
// requested range, and an exhausted queue yields the lowest legal value.
type Scripted struct {
	Ints   []int
	Floats []float64

	Calls int // number of draws served
}

// New returns a Scripted source with the given integer queue.
func New(ints ...int) *Scripted {
	return &Scripted{Ints: ints}
}

// WithFloats appends values to the float queue and returns s.
func (s *Scripted) WithFloats(floats ...float64) *Scripted {
	s.Floats = append(s.Floats, floats...)
	return s
}

func (s *Scripted) nextInt(fallback int) int {
	s.Calls++
	if len(s.Ints) == 0 {
		return fallback
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v
}

// Intn returns the next queued integer clamped to [0, n).
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return clamp(s.nextInt(0), 0, n-1)
}

// Range returns the next queued integer clamped to [lo, hi].
func (s *Scripted) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return clamp(s.nextInt(lo), lo, hi)
}

// Float64 returns the next queued float, or 0 when the queue is empty.
func (s *Scripted) Float64() float64 {
	s.Calls++
	if len(s.Floats) == 0 {
		return 0
	}
	f := s.Floats[0]
	s.Floats = s.Floats[1:]
	return f
}

// Remaining reports how many queued values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.Ints) + len(s.Floats)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
