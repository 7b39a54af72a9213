// Package sim drives the population on a fixed-step simulation clock,
// independent of any host window or terminal.
package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/population"
	"github.com/pthm-cable/creatures/telemetry"
)

// Options configures a Runner.
type Options struct {
	Seed           uint64  // RNG seed (0 = time-based)
	LogStats       bool    // log stats windows via slog
	StatsWindowSec float64 // stats window in simulation seconds (0 = config)
	OutputDir      string  // CSV and config snapshot directory (empty = disabled)
	StepsPerUpdate int     // ticks per Update call (< 1 means 1)
}

// Totals holds run-wide event counts.
type Totals struct {
	Born        int
	Seeded      int
	DiedOfAge   int
	DiedInZone  int
	Extinctions int
}

// Runner owns the population and the simulation clock.
type Runner struct {
	cfg  *config.Config
	pop  *population.Manager
	seed uint64

	// Arena and host input
	width, height float64
	pointer       population.Pointer

	// Clock
	tick   int32
	now    time.Duration
	step   time.Duration
	paused bool

	stepsPerUpdate int

	last   population.TickResult
	totals Totals

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a runner and seeds the first generation at time zero.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	r := &Runner{
		cfg:            cfg,
		pop:            population.New(population.SettingsFromConfig(cfg), dna.NewSource(seed)),
		seed:           seed,
		width:          cfg.Derived.ScreenW,
		height:         cfg.Derived.ScreenH,
		step:           cfg.Derived.StepDuration,
		stepsPerUpdate: steps,
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.StepDuration),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:  om,
		logStats:       opts.LogStats,
	}
	r.pop.SetPhaseRecorder(r.perfCollector)

	if err := r.pop.Seed(r.frame()); err != nil {
		om.Close()
		return nil, fmt.Errorf("seeding population: %w", err)
	}
	r.totals.Seeded = r.pop.Len()
	r.collector.RecordBirths(r.pop.Len(), 0)

	slog.Info("population_seeded",
		"seed", seed,
		"count", r.pop.Len(),
		"width", r.width,
		"height", r.height,
	)

	return r, nil
}

// Update runs StepsPerUpdate ticks unless the runner is paused.
func (r *Runner) Update() error {
	if r.paused {
		return nil
	}
	for i := 0; i < r.stepsPerUpdate; i++ {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs a single tick and advances the clock, ignoring pause.
func (r *Runner) Step() error {
	r.perfCollector.StartTick()

	res, err := r.pop.Tick(r.frame())
	if err != nil {
		r.perfCollector.EndTick()
		return fmt.Errorf("tick %d: %w", r.tick, err)
	}

	r.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	r.record(res)
	r.tick++
	r.now += r.step
	r.flushTelemetry()

	r.perfCollector.EndTick()
	return nil
}

func (r *Runner) frame() population.Frame {
	return population.Frame{
		Width:   r.width,
		Height:  r.height,
		Now:     r.now,
		Pointer: r.pointer,
	}
}

func (r *Runner) record(res population.TickResult) {
	r.last = res

	r.totals.Born += res.Born
	r.totals.Seeded += res.Seeded
	r.totals.DiedOfAge += res.DiedOfAge
	r.totals.DiedInZone += res.DiedInZone

	r.collector.RecordBirths(res.Seeded, res.Born)
	r.collector.RecordDeaths(res.DiedOfAge, res.DiedInZone)
	if res.Extinct {
		r.totals.Extinctions++
		r.collector.RecordExtinction()
	}
}

// flushTelemetry emits a stats window once enough ticks have elapsed.
func (r *Runner) flushTelemetry() {
	if !r.collector.ShouldFlush(r.tick) {
		return
	}

	stats := r.collector.Flush(r.tick, r.pop.Creatures(r.now))
	perfStats := r.perfCollector.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		slog.Info("perf", "perf", perfStats)
	}

	if err := r.outputManager.WriteTelemetry(stats); err != nil {
		slog.Warn("failed to write telemetry", "error", err)
	}
	if err := r.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Warn("failed to write perf", "error", err)
	}
}

// TogglePause flips the pause state. The clock does not advance while paused.
func (r *Runner) TogglePause() {
	r.paused = !r.paused
}

// Paused reports whether Update is currently a no-op.
func (r *Runner) Paused() bool {
	return r.paused
}

// Resize changes the arena bounds used from the next tick on.
func (r *Runner) Resize(width, height float64) {
	r.width = width
	r.height = height
}

// Bounds returns the current arena size.
func (r *Runner) Bounds() (width, height float64) {
	return r.width, r.height
}

// SetPointer records the host's pointer state for the next tick.
func (r *Runner) SetPointer(p population.Pointer) {
	r.pointer = p
}

// Pointer returns the last pointer state handed in by the host.
func (r *Runner) Pointer() population.Pointer {
	return r.pointer
}

// SetKillZoneEnabled toggles pointer-driven removal.
func (r *Runner) SetKillZoneEnabled(enabled bool) {
	r.pop.SetKillZoneEnabled(enabled)
}

// KillZoneEnabled reports whether pointer drags remove creatures.
func (r *Runner) KillZoneEnabled() bool {
	return r.pop.Settings().KillZoneEnabled
}

// KillZoneRadius returns the removal zone radius in arena units.
func (r *Runner) KillZoneRadius() float64 {
	return r.pop.Settings().KillZoneRadius
}

// StepsPerUpdate returns the number of ticks run per Update call.
func (r *Runner) StepsPerUpdate() int {
	return r.stepsPerUpdate
}

// SetStepsPerUpdate changes the ticks per Update call; values below 1 are
// raised to 1.
func (r *Runner) SetStepsPerUpdate(n int) {
	r.stepsPerUpdate = max(n, 1)
}

// SetStatsCallback installs a hook called on every flushed stats window.
func (r *Runner) SetStatsCallback(fn func(telemetry.WindowStats)) {
	r.statsCallback = fn
}

// RecordFrame records host frame timing.
func (r *Runner) RecordFrame() {
	r.perfCollector.RecordFrame()
}

// Each calls fn for every creature alive at the current clock.
func (r *Runner) Each(fn func(c components.Creature)) {
	r.pop.Each(r.now, fn)
}

// Creatures returns a snapshot of the creatures alive at the current clock.
func (r *Runner) Creatures() []components.Creature {
	return r.pop.Creatures(r.now)
}

// CreatureAt returns the live creature under the arena point (x, y).
func (r *Runner) CreatureAt(x, y float64) (ecs.Entity, bool) {
	return r.pop.At(r.now, x, y)
}

// Creature returns the creature stored under e while it is alive.
func (r *Runner) Creature(e ecs.Entity) (components.Creature, bool) {
	return r.pop.Get(r.now, e)
}

// Tick returns the number of ticks run so far.
func (r *Runner) Tick() int32 {
	return r.tick
}

// Now returns the simulation clock.
func (r *Runner) Now() time.Duration {
	return r.now
}

// Population returns the number of live creatures.
func (r *Runner) Population() int {
	return r.pop.Len()
}

// Last returns the result of the most recent tick.
func (r *Runner) Last() population.TickResult {
	return r.last
}

// Totals returns run-wide event counts.
func (r *Runner) Totals() Totals {
	return r.totals
}

// Seed returns the RNG seed in use.
func (r *Runner) Seed() uint64 {
	return r.seed
}

// PerfStats returns timing statistics over the perf window.
func (r *Runner) PerfStats() telemetry.PerfStats {
	return r.perfCollector.Stats()
}

// OutputDir returns the output directory, or "" when output is disabled.
func (r *Runner) OutputDir() string {
	return r.outputManager.Dir()
}

// Close flushes and closes run output.
func (r *Runner) Close() error {
	return r.outputManager.Close()
}
