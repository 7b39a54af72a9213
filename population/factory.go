package population

import (
	"fmt"
	"time"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/dna"
)

// DefaultLifespan is how long a creature lives unless configured otherwise.
const DefaultLifespan = 10 * time.Second

// Factory materializes creature records from DNA.
type Factory struct {
	Lifespan time.Duration
}

// Create decodes d and returns the creature born at pos and birthdate.
// Invalid DNA is rejected rather than partially decoded.
func (f Factory) Create(pos components.Position, birthdate time.Duration, d dna.DNA) (components.Creature, error) {
	p, err := dna.Decode(d)
	if err != nil {
		return components.Creature{}, fmt.Errorf("creating creature: %w", err)
	}

	lifespan := f.Lifespan
	if lifespan <= 0 {
		lifespan = DefaultLifespan
	}

	return components.Creature{
		DNA:       d,
		Lifespan:  lifespan,
		Birthdate: birthdate,
		Position:  pos,
		Velocity:  components.Velocity{X: p.Velocity.X, Y: p.Velocity.Y},
		Size:      p.Size,
		Color:     p.Color,
	}, nil
}
