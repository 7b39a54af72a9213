package components

import (
	"testing"
	"time"

	"github.com/pthm-cable/creatures/dna"
)

func TestGenomeAliveAt(t *testing.T) {
	g := Genome{Birthdate: 2 * time.Second, Lifespan: 10 * time.Second}

	tests := []struct {
		now  time.Duration
		want bool
	}{
		{2 * time.Second, true},
		{11999 * time.Millisecond, true},
		{12 * time.Second, false},
		{13 * time.Second, false},
	}

	for _, tt := range tests {
		if got := g.AliveAt(tt.now); got != tt.want {
			t.Errorf("AliveAt(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
	if g.DeathAt() != 12*time.Second {
		t.Errorf("DeathAt = %v, want 12s", g.DeathAt())
	}
}

func TestCreatureComponentsRoundtrip(t *testing.T) {
	c := Creature{
		DNA:       "12500250999217530",
		Lifespan:  10 * time.Second,
		Birthdate: time.Second,
		Position:  Position{X: 10, Y: 20},
		Velocity:  Velocity{X: 1, Y: -0.8},
		Size:      12,
		Color:     dna.Color{R: 128, G: 64, B: 255, A: 0.175},
	}

	if got := FromComponents(c.Components()); got != c {
		t.Errorf("roundtrip = %+v, want %+v", got, c)
	}
	if c.Radius() != 6 {
		t.Errorf("Radius = %v, want 6", c.Radius())
	}
}
