package telemetry

import (
	"math"
	"time"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/dna"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  time.Duration

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spontaneousBirths int
	offspringBirths   int
	ageDeaths         int
	zoneDeaths        int
	extinctions       int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: simulated time per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt time.Duration) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / dt.Seconds())
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirths records spontaneous and mated births.
func (c *Collector) RecordBirths(spontaneous, offspring int) {
	c.spontaneousBirths += spontaneous
	c.offspringBirths += offspring
}

// RecordDeaths records deaths by age and by the removal zone.
func (c *Collector) RecordDeaths(age, zone int) {
	c.ageDeaths += age
	c.zoneDeaths += zone
}

// RecordExtinction records a total population loss.
func (c *Collector) RecordExtinction() {
	c.extinctions++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the living creatures,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, creatures []components.Creature) WindowStats {
	sizes := make([]float64, len(creatures))
	speeds := make([]float64, len(creatures))
	alphas := make([]float64, len(creatures))
	genomes := make(map[dna.DNA]struct{}, len(creatures))

	for i, cr := range creatures {
		sizes[i] = float64(cr.Size)
		speeds[i] = math.Hypot(cr.Velocity.X, cr.Velocity.Y)
		alphas[i] = cr.Color.A
		genomes[cr.DNA] = struct{}{}
	}

	sizeMean, sizeStd, sizeP10, sizeP50, sizeP90 := ComputeDistribution(sizes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt.Seconds(),

		Population: len(creatures),

		SpontaneousBirths: c.spontaneousBirths,
		OffspringBirths:   c.offspringBirths,
		AgeDeaths:         c.ageDeaths,
		ZoneDeaths:        c.zoneDeaths,
		Extinctions:       c.extinctions,

		SizeMean: sizeMean,
		SizeStd:  sizeStd,
		SizeP10:  sizeP10,
		SizeP50:  sizeP50,
		SizeP90:  sizeP90,

		SpeedMean: Mean(speeds),
		AlphaMean: Mean(alphas),

		DistinctGenomes: len(genomes),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spontaneousBirths = 0
	c.offspringBirths = 0
	c.ageDeaths = 0
	c.zoneDeaths = 0
	c.extinctions = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
