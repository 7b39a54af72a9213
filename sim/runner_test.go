package sim

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/population"
	"github.com/pthm-cable/creatures/telemetry"
)

func newRunner(t *testing.T, cfg *config.Config, opts Options) *Runner {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	r, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewSeedsTarget(t *testing.T) {
	cfg := config.Default()
	r := newRunner(t, cfg, Options{})

	if r.Population() != cfg.Population.Target {
		t.Errorf("Population = %d, want %d", r.Population(), cfg.Population.Target)
	}
	if r.Tick() != 0 || r.Now() != 0 {
		t.Errorf("clock = tick %d, %v; want 0", r.Tick(), r.Now())
	}
	if r.Totals().Seeded != cfg.Population.Target {
		t.Errorf("Totals.Seeded = %d, want %d", r.Totals().Seeded, cfg.Population.Target)
	}
	if w, h := r.Bounds(); w != cfg.Derived.ScreenW || h != cfg.Derived.ScreenH {
		t.Errorf("Bounds = %vx%v, want %vx%v", w, h, cfg.Derived.ScreenW, cfg.Derived.ScreenH)
	}
}

func TestUpdateAdvancesClock(t *testing.T) {
	cfg := config.Default()
	r := newRunner(t, cfg, Options{StepsPerUpdate: 3})

	for i := 0; i < 4; i++ {
		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
	}

	if r.Tick() != 12 {
		t.Errorf("Tick = %d, want 12", r.Tick())
	}
	if want := 12 * cfg.Derived.StepDuration; r.Now() != want {
		t.Errorf("Now = %v, want %v", r.Now(), want)
	}
}

func TestPauseFreezesClock(t *testing.T) {
	r := newRunner(t, config.Default(), Options{})

	r.TogglePause()
	if !r.Paused() {
		t.Fatal("not paused after toggle")
	}
	for i := 0; i < 5; i++ {
		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Tick() != 0 || r.Now() != 0 {
		t.Errorf("paused clock moved: tick %d, %v", r.Tick(), r.Now())
	}

	r.TogglePause()
	if err := r.Update(); err != nil {
		t.Fatal(err)
	}
	if r.Tick() != 1 {
		t.Errorf("Tick after resume = %d, want 1", r.Tick())
	}
}

func TestSetStepsPerUpdate(t *testing.T) {
	r := newRunner(t, config.Default(), Options{})
	if r.StepsPerUpdate() != 1 {
		t.Errorf("default StepsPerUpdate = %d, want 1", r.StepsPerUpdate())
	}
	r.SetStepsPerUpdate(0)
	if r.StepsPerUpdate() != 1 {
		t.Errorf("StepsPerUpdate after 0 = %d, want 1", r.StepsPerUpdate())
	}
	r.SetStepsPerUpdate(7)
	if r.StepsPerUpdate() != 7 {
		t.Errorf("StepsPerUpdate = %d, want 7", r.StepsPerUpdate())
	}
}

func TestPointerDragWipesAndReseeds(t *testing.T) {
	cfg := config.Default()
	cfg.KillZone.Radius = 1e6
	r := newRunner(t, cfg, Options{})

	r.SetPointer(population.Pointer{Dragging: true, X: 1, Y: 1})
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}

	totals := r.Totals()
	if totals.DiedInZone != cfg.Population.Target {
		t.Errorf("DiedInZone = %d, want %d", totals.DiedInZone, cfg.Population.Target)
	}
	if totals.Extinctions != 1 || !r.Last().Extinct {
		t.Errorf("Extinctions = %d, Last = %+v; want one extinction", totals.Extinctions, r.Last())
	}
	if r.Population() != cfg.Population.Target {
		t.Errorf("Population after reseed = %d, want %d", r.Population(), cfg.Population.Target)
	}
}

func TestKillZoneToggle(t *testing.T) {
	cfg := config.Default()
	cfg.KillZone.Radius = 1e6
	r := newRunner(t, cfg, Options{})

	r.SetKillZoneEnabled(false)
	if r.KillZoneEnabled() {
		t.Fatal("kill zone still enabled")
	}
	r.SetPointer(population.Pointer{Dragging: true, X: 1, Y: 1})
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	if r.Totals().DiedInZone != 0 {
		t.Errorf("DiedInZone = %d with zone disabled", r.Totals().DiedInZone)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := config.Default()
	a := newRunner(t, cfg, Options{Seed: 9})
	b := newRunner(t, cfg, Options{Seed: 9})

	for i := 0; i < 120; i++ {
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(); err != nil {
			t.Fatal(err)
		}
	}

	ca, cb := a.Creatures(), b.Creatures()
	if len(ca) != len(cb) {
		t.Fatalf("populations diverged: %d vs %d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("creature %d diverged: %+v vs %+v", i, ca[i], cb[i])
		}
	}
}

func TestLifespanTurnsOverGeneration(t *testing.T) {
	cfg := config.Default()
	cfg.Lifecycle.LifespanMs = 100
	cfg.ComputeDerived()
	r := newRunner(t, cfg, Options{})

	// Six steps of 1/60s fall just short of 100ms.
	for i := 0; i < 8; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if r.Totals().DiedOfAge < cfg.Population.Target {
		t.Errorf("DiedOfAge = %d, want at least %d", r.Totals().DiedOfAge, cfg.Population.Target)
	}
	for _, c := range r.Creatures() {
		if !c.AliveAt(r.Now()) {
			t.Errorf("expired creature visible: %+v", c)
		}
	}
}

func TestResize(t *testing.T) {
	r := newRunner(t, config.Default(), Options{})
	r.Resize(300, 200)
	if w, h := r.Bounds(); w != 300 || h != 200 {
		t.Errorf("Bounds = %vx%v, want 300x200", w, h)
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	r, err := New(cfg, Options{Seed: 3, OutputDir: dir, StatsWindowSec: 0.1})
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.WindowStats
	r.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	for i := 0; i < 20; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	if len(windows) != 3 {
		t.Fatalf("flushed %d windows, want 3", len(windows))
	}
	if windows[0].SpontaneousBirths != cfg.Population.Target {
		t.Errorf("first window spontaneous births = %d, want %d", windows[0].SpontaneousBirths, cfg.Population.Target)
	}
	if r.OutputDir() != dir {
		t.Errorf("OutputDir = %q, want %q", r.OutputDir(), dir)
	}

	if got := countLines(t, filepath.Join(dir, "telemetry.csv")); got != 4 {
		t.Errorf("telemetry.csv has %d lines, want 4", got)
	}
	if got := countLines(t, filepath.Join(dir, "perf.csv")); got != 4 {
		t.Errorf("perf.csv has %d lines, want 4", got)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestCreatureLookup(t *testing.T) {
	r := newRunner(t, config.Default(), Options{})

	c := r.Creatures()[0]
	e, ok := r.CreatureAt(c.Position.X, c.Position.Y)
	if !ok {
		t.Fatalf("no creature found at %+v", c.Position)
	}
	got, ok := r.Creature(e)
	if !ok {
		t.Fatal("Creature lookup failed for a live entity")
	}
	if got.Position != c.Position {
		t.Errorf("found creature at %+v, want one centred at %+v", got.Position, c.Position)
	}
}
