// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
)

// Bounds represents the arena bounds.
type Bounds struct {
	Width, Height float64
}

// Advance moves a creature by one tick.
// Velocity is reflected on any axis where the pre-update position is outside
// the arena, then added to the position. No clamping is applied, so a
// creature may overshoot an edge by up to one tick of velocity.
func Advance(pos *components.Position, vel *components.Velocity, width, height float64) {
	if pos.X < 0 || pos.X > width {
		vel.X = -vel.X
	}
	if pos.Y < 0 || pos.Y > height {
		vel.Y = -vel.Y
	}
	pos.X += vel.X
	pos.Y += vel.Y
}

// MotionSystem advances every creature in the world.
type MotionSystem struct {
	filter *ecs.Filter2[components.Position, components.Velocity]
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World) *MotionSystem {
	return &MotionSystem{
		filter: ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update applies Advance to every entity with a position and velocity.
// Returns the number of entities moved.
func (s *MotionSystem) Update(bounds Bounds) int {
	moved := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		Advance(pos, vel, bounds.Width, bounds.Height)
		moved++
	}
	return moved
}
