// Package dnatest provides deterministic randomness for tests.
package dnatest

// Source replays scripted values. Floats and Ints are consumed in order and
// wrap around when exhausted; empty scripts return Float and 0.
type Source struct {
	Floats []float64
	Ints   []int
	// Float is returned by Float64 when Floats is empty.
	Float float64

	fi, ii int

	// FloatCalls and IntCalls count draws.
	FloatCalls int
	IntCalls   int
}

// Float64 returns the next scripted float.
func (s *Source) Float64() float64 {
	s.FloatCalls++
	if len(s.Floats) == 0 {
		return s.Float
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// IntN returns the next scripted int reduced modulo n.
func (s *Source) IntN(n int) int {
	s.IntCalls++
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	return ((v % n) + n) % n
}

// Constant returns a source whose Float64 always yields f and IntN always 0.
func Constant(f float64) *Source {
	return &Source{Float: f}
}
