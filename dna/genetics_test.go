package dna_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/dna/dnatest"
)

func TestCrossoverAt(t *testing.T) {
	tests := []struct {
		cut  int
		want dna.DNA
	}{
		{0, "hijklmn"},
		{3, "abcklmn"},
		{6, "abcdefn"},
		{7, "abcdefg"},
	}

	for _, tt := range tests {
		got, err := dna.CrossoverAt("abcdefg", "hijklmn", tt.cut)
		if err != nil {
			t.Fatalf("CrossoverAt(cut=%d): %v", tt.cut, err)
		}
		if got != tt.want {
			t.Errorf("CrossoverAt(cut=%d) = %q, want %q", tt.cut, got, tt.want)
		}
	}
}

func TestCrossoverLength(t *testing.T) {
	src := dna.NewSource(3)
	for i := 0; i < 1000; i++ {
		got, err := dna.Crossover(src, "abcdefg", "hijklmn")
		if err != nil {
			t.Fatalf("Crossover: %v", err)
		}
		if len(got) != 7 {
			t.Fatalf("Crossover length = %d, want 7", len(got))
		}
		// Every symbol must come from the parent at the same index.
		for j := 0; j < 7; j++ {
			if got[j] != "abcdefg"[j] && got[j] != "hijklmn"[j] {
				t.Fatalf("Crossover = %q: symbol %d from neither parent", got, j)
			}
		}
	}
}

func TestCrossoverCutRange(t *testing.T) {
	// IntN(len) yields len-1 at most, so the last symbol always comes from b.
	src := &dnatest.Source{Ints: []int{6}}
	got, err := dna.Crossover(src, "abcdefg", "hijklmn")
	if err != nil {
		t.Fatal(err)
	}
	if got != "abcdefn" {
		t.Errorf("Crossover with cut 6 = %q, want %q", got, "abcdefn")
	}
}

func TestCrossoverLengthMismatch(t *testing.T) {
	src := dnatest.Constant(0)
	if _, err := dna.Crossover(src, "abc", "abcd"); !errors.Is(err, dna.ErrInvalidDNA) {
		t.Errorf("Crossover mismatched lengths error = %v, want ErrInvalidDNA", err)
	}
	if _, err := dna.CrossoverAt("abc", "abd", 4); !errors.Is(err, dna.ErrInvalidDNA) {
		t.Errorf("CrossoverAt out of range cut error = %v, want ErrInvalidDNA", err)
	}
}

func TestMutateRate(t *testing.T) {
	const (
		n    = 200000
		rate = 0.05
	)
	parent := dna.DNA(strings.Repeat("0", n))
	src := dna.NewSource(11)

	child := dna.Mutate(src, parent, rate)
	if len(child) != n {
		t.Fatalf("Mutate length = %d, want %d", len(child), n)
	}

	diff := 0
	for i := 0; i < n; i++ {
		if child[i] != parent[i] {
			diff++
		}
	}

	// A replacement digit equals the original one time in ten.
	want := rate * 0.9
	got := float64(diff) / n
	if math.Abs(got-want) > 0.003 {
		t.Errorf("differing fraction = %.4f, want ~%.4f", got, want)
	}
}

func TestMutateBoundaries(t *testing.T) {
	parent := dna.DNA("12500250999217530")

	t.Run("zero rate keeps dna", func(t *testing.T) {
		src := dnatest.Constant(0)
		if got := dna.Mutate(src, parent, 0); got != parent {
			t.Errorf("Mutate(rate=0) = %q, want %q", got, parent)
		}
		if src.FloatCalls != 0 {
			t.Errorf("Mutate(rate=0) drew %d floats, want 0", src.FloatCalls)
		}
	})

	t.Run("full rate replaces every symbol", func(t *testing.T) {
		src := &dnatest.Source{Float: 0, Ints: []int{7}}
		got := dna.Mutate(src, parent, 1)
		if got != dna.DNA(strings.Repeat("7", len(parent))) {
			t.Errorf("Mutate(rate=1) = %q", got)
		}
	})

	t.Run("result stays valid", func(t *testing.T) {
		src := dna.NewSource(5)
		for i := 0; i < 100; i++ {
			if err := dna.Validate(dna.Mutate(src, parent, 0.5), dna.Length); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func TestBreed(t *testing.T) {
	// Cut at index 5, no mutations.
	src := &dnatest.Source{Ints: []int{5}, Float: 0.99}
	got, err := dna.Breed(src, "11111111111111111", "22222222222222222", 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if got != "11111222222222222" {
		t.Errorf("Breed = %q, want %q", got, "11111222222222222")
	}
	if src.FloatCalls != dna.Length {
		t.Errorf("Breed drew %d mutation floats, want %d", src.FloatCalls, dna.Length)
	}
}
