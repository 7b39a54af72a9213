package systems

import (
	"math"

	"github.com/pthm-cable/creatures/components"
)

// KillZone is a circular region; creatures overlapping it die immediately.
type KillZone struct {
	X, Y   float64
	Radius float64
}

// Contains reports whether a creature of the given size at pos overlaps the
// zone: its centre lies within Radius + size of the zone centre.
func (z KillZone) Contains(pos components.Position, size int) bool {
	return math.Hypot(pos.X-z.X, pos.Y-z.Y) <= z.Radius+float64(size)
}
