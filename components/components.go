// Package components defines ECS components for the simulation.
package components

import (
	"time"

	"github.com/pthm-cable/creatures/dna"
)

// Position represents a creature's arena position.
type Position struct {
	X, Y float64
}

// Velocity represents a creature's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// Body holds the visible traits fixed at birth.
type Body struct {
	Size  int       // circle diameter, 0..99
	Color dna.Color // fill color
}

// Genome holds the heritable DNA and the creature's life window.
type Genome struct {
	DNA       dna.DNA
	Birthdate time.Duration // simulation clock at birth
	Lifespan  time.Duration
}

// DeathAt returns the instant the creature dies of age.
func (g Genome) DeathAt() time.Duration {
	return g.Birthdate + g.Lifespan
}

// AliveAt reports whether the creature is still within its lifespan at now.
func (g Genome) AliveAt(now time.Duration) bool {
	return now < g.DeathAt()
}

// Creature is the materialized record of a single creature.
// Size, Color and the initial Velocity are decoded from DNA once at birth.
type Creature struct {
	DNA       dna.DNA
	Lifespan  time.Duration
	Birthdate time.Duration
	Position  Position
	Velocity  Velocity
	Size      int
	Color     dna.Color
}

// Components splits the record into its ECS components.
func (c Creature) Components() (Position, Velocity, Body, Genome) {
	return c.Position, c.Velocity,
		Body{Size: c.Size, Color: c.Color},
		Genome{DNA: c.DNA, Birthdate: c.Birthdate, Lifespan: c.Lifespan}
}

// FromComponents assembles a record from ECS components.
func FromComponents(pos Position, vel Velocity, body Body, genome Genome) Creature {
	return Creature{
		DNA:       genome.DNA,
		Lifespan:  genome.Lifespan,
		Birthdate: genome.Birthdate,
		Position:  pos,
		Velocity:  vel,
		Size:      body.Size,
		Color:     body.Color,
	}
}

// Radius returns the drawing radius.
func (c Creature) Radius() float64 {
	return float64(c.Size) / 2
}

// AliveAt reports whether the creature is still within its lifespan at now.
func (c Creature) AliveAt(now time.Duration) bool {
	return now < c.Birthdate+c.Lifespan
}
