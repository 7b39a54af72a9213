package population

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/systems"
)

// cullByAge removes every creature whose death instant has passed.
func (m *Manager) cullByAge(now time.Duration) int {
	return m.removeWhere(func(_ *components.Position, _ *components.Body, genome *components.Genome) bool {
		return !genome.AliveAt(now)
	})
}

// cullByZone removes every creature overlapping the zone.
func (m *Manager) cullByZone(zone systems.KillZone) int {
	return m.removeWhere(func(pos *components.Position, body *components.Body, _ *components.Genome) bool {
		return zone.Contains(*pos, body.Size)
	})
}

// killZone returns the active removal zone, if any.
func (m *Manager) killZone(p Pointer) (systems.KillZone, bool) {
	if !m.settings.KillZoneEnabled || !p.Dragging {
		return systems.KillZone{}, false
	}
	return systems.KillZone{X: p.X, Y: p.Y, Radius: m.settings.KillZoneRadius}, true
}

// removeWhere deletes every creature matching dead and returns how many
// were removed.
func (m *Manager) removeWhere(dead func(*components.Position, *components.Body, *components.Genome) bool) int {
	// First pass: collect (the world is locked while the query runs)
	var toRemove []ecs.Entity

	query := m.filter.Query()
	for query.Next() {
		pos, _, body, genome := query.Get()
		if dead(pos, body, genome) {
			toRemove = append(toRemove, query.Entity())
		}
	}

	// Second pass: remove
	for _, e := range toRemove {
		m.world.RemoveEntity(e)
	}
	m.count -= len(toRemove)

	return len(toRemove)
}
