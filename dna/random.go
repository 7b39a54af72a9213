package dna

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Source is the single source of randomness for the simulation.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed is replaced by the
// current time.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Random returns length independent uniformly random digits.
func Random(src Source, length int) DNA {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(digit(src))
	}
	return DNA(b.String())
}

func digit(src Source) byte {
	return byte('0' + src.IntN(10))
}
