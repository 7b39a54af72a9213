package dna

import "fmt"

// Crossover recombines a and b at a uniformly random cut in [0, len(a)).
// The result takes a's symbols before the cut and b's from the cut onward.
func Crossover(src Source, a, b DNA) (DNA, error) {
	if len(a) != len(b) {
		return "", fmt.Errorf("%w: crossover of lengths %d and %d", ErrInvalidDNA, len(a), len(b))
	}
	if len(a) == 0 {
		return "", nil
	}
	return CrossoverAt(a, b, src.IntN(len(a)))
}

// CrossoverAt recombines a and b at an explicit cut in [0, len(a)].
// A cut of 0 yields b; a cut of len(a) yields a.
func CrossoverAt(a, b DNA, cut int) (DNA, error) {
	if len(a) != len(b) {
		return "", fmt.Errorf("%w: crossover of lengths %d and %d", ErrInvalidDNA, len(a), len(b))
	}
	if cut < 0 || cut > len(a) {
		return "", fmt.Errorf("%w: cut %d outside [0, %d]", ErrInvalidDNA, cut, len(a))
	}
	return a[:cut] + b[cut:], nil
}

// Mutate replaces each symbol of d with a random digit with probability rate.
func Mutate(src Source, d DNA, rate float64) DNA {
	if rate <= 0 {
		return d
	}

	out := []byte(d)
	for i := range out {
		if src.Float64() < rate {
			out[i] = digit(src)
		}
	}
	return DNA(out)
}

// Breed produces offspring DNA from two parents: crossover followed by
// per-symbol mutation.
func Breed(src Source, a, b DNA, mutationRate float64) (DNA, error) {
	child, err := Crossover(src, a, b)
	if err != nil {
		return "", err
	}
	return Mutate(src, child, mutationRate), nil
}
