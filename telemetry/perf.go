package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation tick, in execution order.
const (
	PhaseAgeCull    = "age_cull"
	PhaseZoneCull   = "zone_cull"
	PhaseMotion     = "motion"
	PhaseSelection  = "selection"
	PhaseMating     = "mating"
	PhaseExtinction = "extinction"
	PhaseTelemetry  = "telemetry"
)

var phaseOrder = [...]string{
	PhaseAgeCull, PhaseZoneCull, PhaseMotion, PhaseSelection,
	PhaseMating, PhaseExtinction, PhaseTelemetry,
}

// Phases lists every tick phase in execution order.
var Phases = phaseOrder[:]

func phaseIndex(phase string) int {
	for i, name := range phaseOrder {
		if name == phase {
			return i
		}
	}
	return -1
}

type tickSample struct {
	total  time.Duration
	phases [len(phaseOrder)]time.Duration
	ran    [len(phaseOrder)]bool
}

// PerfCollector keeps per-phase tick timings for the last window ticks.
// Phase names outside Phases are ignored.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickBegan  time.Time
	phaseBegan time.Time
	running    int // index into Phases, -1 when idle

	prevFrame time.Time
	frameGap  time.Duration
}

// NewPerfCollector returns a collector averaging over window ticks
// (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window), running: -1}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.running = -1
	p.tickBegan = time.Now()
}

// StartPhase closes the running phase and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	p.closePhase(time.Now())
	p.running = phaseIndex(phase)
	if p.running >= 0 {
		p.cur.ran[p.running] = true
	}
}

func (p *PerfCollector) closePhase(at time.Time) {
	if p.running >= 0 {
		p.cur.phases[p.running] += at.Sub(p.phaseBegan)
	}
	p.phaseBegan = at
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	at := time.Now()
	p.closePhase(at)
	p.running = -1
	p.cur.total = at.Sub(p.tickBegan)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a rendered frame; the gap between the last two frames
// gives FPS.
func (p *PerfCollector) RecordFrame() {
	at := time.Now()
	if !p.prevFrame.IsZero() {
		p.frameGap = at.Sub(p.prevFrame)
	}
	p.prevFrame = at
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown: average durations and share of tick time
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      map[string]time.Duration{},
		PhasePct:      map[string]float64{},
		FrameDuration: p.frameGap,
	}
	if p.frameGap > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameGap)
	}
	if p.filled == 0 {
		return stats
	}

	var total time.Duration
	var sums [len(phaseOrder)]time.Duration
	var seen [len(phaseOrder)]bool
	stats.MinTickDuration = p.ring[0].total
	for _, sample := range p.ring[:p.filled] {
		total += sample.total
		stats.MinTickDuration = min(stats.MinTickDuration, sample.total)
		stats.MaxTickDuration = max(stats.MaxTickDuration, sample.total)
		for i, d := range sample.phases {
			sums[i] += d
			seen[i] = seen[i] || sample.ran[i]
		}
	}

	n := time.Duration(p.filled)
	stats.AvgTickDuration = total / n
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	for i, name := range phaseOrder {
		if !seen[i] {
			continue
		}
		avg := sums[i] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = 100 * float64(avg) / float64(stats.AvgTickDuration)
		}
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	AgeCullPct    float64 `csv:"age_cull_pct"`
	ZoneCullPct   float64 `csv:"zone_cull_pct"`
	MotionPct     float64 `csv:"motion_pct"`
	SelectionPct  float64 `csv:"selection_pct"`
	MatingPct     float64 `csv:"mating_pct"`
	ExtinctionPct float64 `csv:"extinction_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		AgeCullPct:    s.PhasePct[PhaseAgeCull],
		ZoneCullPct:   s.PhasePct[PhaseZoneCull],
		MotionPct:     s.PhasePct[PhaseMotion],
		SelectionPct:  s.PhasePct[PhaseSelection],
		MatingPct:     s.PhasePct[PhaseMating],
		ExtinctionPct: s.PhasePct[PhaseExtinction],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
