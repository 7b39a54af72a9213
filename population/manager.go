// Package population owns the live set of creatures and advances it one
// tick at a time.
package population

import (
	"log/slog"
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/systems"
	"github.com/pthm-cable/creatures/telemetry"
)

// Settings holds the tunable population parameters.
type Settings struct {
	Target          int           // creatures spawned when seeding
	MaxPopulation   int           // mating stops at this size (0 = unlimited)
	ProcreateRate   float64       // per-tick chance a creature becomes a parent
	MutationRate    float64       // per-symbol mutation chance for offspring
	Lifespan        time.Duration // fixed lifespan of every creature
	KillZoneEnabled bool          // whether pointer drags remove creatures
	KillZoneRadius  float64
}

// DefaultSettings returns the settings used when no config is loaded.
func DefaultSettings() Settings {
	return Settings{
		Target:          100,
		ProcreateRate:   0.0017,
		MutationRate:    0.02,
		Lifespan:        DefaultLifespan,
		KillZoneEnabled: true,
		KillZoneRadius:  20,
	}
}

// SettingsFromConfig extracts population settings from the loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Target:          cfg.Population.Target,
		MaxPopulation:   cfg.Population.Max,
		ProcreateRate:   cfg.Reproduction.ProcreateRate,
		MutationRate:    cfg.Mutation.Rate,
		Lifespan:        cfg.Derived.Lifespan,
		KillZoneEnabled: cfg.KillZone.Enabled,
		KillZoneRadius:  cfg.KillZone.Radius,
	}
}

// Pointer is the host's pointer state. A drag marks the removal zone.
type Pointer struct {
	Dragging bool
	X, Y     float64
}

// Frame is the per-tick context handed in by the host loop.
type Frame struct {
	Width, Height float64       // arena bounds
	Now           time.Duration // simulation clock
	Pointer       Pointer
}

// TickResult summarizes what happened during one tick.
type TickResult struct {
	DiedOfAge  int
	DiedInZone int
	Born       int  // offspring from mating
	Seeded     int  // spontaneous creatures from the extinction guard
	Extinct    bool // population was empty after mating
}

// PhaseRecorder receives the name of each tick phase as it starts.
type PhaseRecorder interface {
	StartPhase(phase string)
}

// Manager owns the creature set.
type Manager struct {
	world *ecs.World

	mapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Genome,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Genome,
	]

	motion   *systems.MotionSystem
	settings Settings
	factory  Factory
	rng      dna.Source
	phases   PhaseRecorder

	count int
}

// New creates an empty population. Call Seed to spawn the first generation.
func New(settings Settings, rng dna.Source) *Manager {
	world := ecs.NewWorld()

	return &Manager{
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Genome,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Genome,
		](world),
		motion:   systems.NewMotionSystem(world),
		settings: settings,
		factory:  Factory{Lifespan: settings.Lifespan},
		rng:      rng,
	}
}

// SetPhaseRecorder installs an optional per-phase timing hook.
func (m *Manager) SetPhaseRecorder(r PhaseRecorder) {
	m.phases = r
}

// Settings returns the current settings.
func (m *Manager) Settings() Settings {
	return m.settings
}

// SetKillZoneEnabled toggles pointer-driven removal.
func (m *Manager) SetKillZoneEnabled(enabled bool) {
	m.settings.KillZoneEnabled = enabled
}

// Len returns the number of live creatures.
func (m *Manager) Len() int {
	return m.count
}

// Tick advances the population by one step. The phases run in a fixed
// order and each observes the results of the previous ones:
// age cull, zone cull, motion, parent selection, mating, extinction guard.
func (m *Manager) Tick(f Frame) (TickResult, error) {
	var res TickResult

	m.startPhase(telemetry.PhaseAgeCull)
	res.DiedOfAge = m.cullByAge(f.Now)

	m.startPhase(telemetry.PhaseZoneCull)
	if zone, ok := m.killZone(f.Pointer); ok {
		res.DiedInZone = m.cullByZone(zone)
	}

	m.startPhase(telemetry.PhaseMotion)
	m.motion.Update(systems.Bounds{Width: f.Width, Height: f.Height})

	m.startPhase(telemetry.PhaseSelection)
	parents := m.selectParents()

	m.startPhase(telemetry.PhaseMating)
	born, err := m.mate(parents, f)
	res.Born = born
	if err != nil {
		return res, err
	}

	m.startPhase(telemetry.PhaseExtinction)
	if m.count == 0 {
		res.Extinct = true
		if err := m.Seed(f); err != nil {
			return res, err
		}
		res.Seeded = m.count
		slog.Info("population_extinct",
			"now_ms", f.Now.Milliseconds(),
			"seeded", res.Seeded,
		)
	}

	return res, nil
}

// Seed spawns Target spontaneous creatures with random DNA at random
// positions, born at f.Now.
func (m *Manager) Seed(f Frame) error {
	for i := 0; i < m.settings.Target; i++ {
		pos := m.randomPosition(f)
		c, err := m.factory.Create(pos, f.Now, dna.Random(m.rng, dna.Length))
		if err != nil {
			return err
		}
		m.Spawn(c)
	}
	return nil
}

// Spawn adds a materialized creature to the population.
func (m *Manager) Spawn(c components.Creature) ecs.Entity {
	pos, vel, body, genome := c.Components()
	entity := m.mapper.NewEntity(&pos, &vel, &body, &genome)
	m.count++
	return entity
}

// Each calls fn for every creature still alive at now. fn must not modify
// the population.
func (m *Manager) Each(now time.Duration, fn func(c components.Creature)) {
	query := m.filter.Query()
	for query.Next() {
		pos, vel, body, genome := query.Get()
		if !genome.AliveAt(now) {
			continue
		}
		fn(components.FromComponents(*pos, *vel, *body, *genome))
	}
}

// Creatures returns a snapshot of every creature alive at now.
func (m *Manager) Creatures(now time.Duration) []components.Creature {
	out := make([]components.Creature, 0, m.count)
	m.Each(now, func(c components.Creature) {
		out = append(out, c)
	})
	return out
}

// minPickRadius keeps tiny creatures selectable.
const minPickRadius = 4.0

// At returns the live creature whose disc contains (x, y), preferring the
// closest centre.
func (m *Manager) At(now time.Duration, x, y float64) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := math.Inf(1)
	found := false

	query := m.filter.Query()
	for query.Next() {
		pos, _, body, genome := query.Get()
		if !genome.AliveAt(now) {
			continue
		}

		dist := math.Hypot(pos.X-x, pos.Y-y)
		hitRadius := max(float64(body.Size)/2, minPickRadius)
		if dist <= hitRadius && dist < closestDist {
			closest = query.Entity()
			closestDist = dist
			found = true
		}
	}

	return closest, found
}

// Get returns the creature stored under e, if it still exists and is alive
// at now.
func (m *Manager) Get(now time.Duration, e ecs.Entity) (components.Creature, bool) {
	if !m.world.Alive(e) {
		return components.Creature{}, false
	}
	pos, vel, body, genome := m.mapper.Get(e)
	if !genome.AliveAt(now) {
		return components.Creature{}, false
	}
	return components.FromComponents(*pos, *vel, *body, *genome), true
}

func (m *Manager) startPhase(phase string) {
	if m.phases != nil {
		m.phases.StartPhase(phase)
	}
}

func (m *Manager) randomPosition(f Frame) components.Position {
	return components.Position{
		X: m.rng.Float64() * f.Width,
		Y: m.rng.Float64() * f.Height,
	}
}
