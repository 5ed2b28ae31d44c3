// Package enginetest provides scripted randomness for deterministic tests.
package enginetest

// Sequence is an engine.RNG that replays scripted values, cycling when it
// runs out. Intn clamps each scripted value into [0, n).
type Sequence struct {
	Ints   []int
	Floats []float64

	intPos   int
	floatPos int
}

// Ints returns a Sequence that yields the given Intn values.
func Ints(values ...int) *Sequence {
	return &Sequence{Ints: values}
}

// Intn returns the next scripted integer clamped into [0, n).
func (s *Sequence) Intn(n int) int {
	if n <= 0 || len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.intPos%len(s.Ints)]
	s.intPos++
	if v < 0 {
		v = 0
	}
	if v >= n {
		v = n - 1
	}
	return v
}

// Float64 returns the next scripted float, or 0 when none are scripted.
func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.floatPos%len(s.Floats)]
	s.floatPos++
	return v
}

// IntCalls reports how many Intn values have been consumed.
func (s *Sequence) IntCalls() int {
	return s.intPos
}
