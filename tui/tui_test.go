package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/sim"
)

func newTestApp(t *testing.T, cols, rows int) (*App, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	runner, err := sim.New(config.Default(), sim.Options{Seed: 5})
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	t.Cleanup(func() { runner.Close() })

	return New(screen, runner, 0), screen
}

func TestArenaMatchesTerminal(t *testing.T) {
	app, _ := newTestApp(t, 80, 25)

	w, h := app.runner.Bounds()
	if w != 80*CellWidth || h != 24*CellHeight {
		t.Errorf("Bounds = %vx%v, want %vx%v", w, h, 80*CellWidth, 24*CellHeight)
	}
}

func TestResizeEvent(t *testing.T) {
	app, screen := newTestApp(t, 80, 25)

	screen.SetSize(40, 11)
	if !app.handleEvent(tcell.NewEventResize(40, 11)) {
		t.Fatal("resize event quit the app")
	}

	w, h := app.runner.Bounds()
	if w != 40*CellWidth || h != 10*CellHeight {
		t.Errorf("Bounds after resize = %vx%v, want %vx%v", w, h, 40*CellWidth, 10*CellHeight)
	}
}

func TestDrawPlacesGlyphs(t *testing.T) {
	app, screen := newTestApp(t, 80, 25)
	app.runner.Resize(80*CellWidth, 24*CellHeight)

	app.Draw()

	glyphs := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == glyph {
				glyphs++
			}
		}
	}
	if glyphs == 0 || glyphs > app.runner.Population() {
		t.Errorf("drew %d glyphs for %d creatures", glyphs, app.runner.Population())
	}

	// Status line is on the last row
	if r, _, _, _ := screen.GetContent(1, 24); r != 't' {
		t.Errorf("status line starts with %q, want 't'", r)
	}
}

func TestHandleKey(t *testing.T) {
	app, _ := newTestApp(t, 80, 25)

	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want bool
	}{
		{"escape quits", tcell.KeyEscape, 0, false},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, false},
		{"q quits", tcell.KeyRune, 'q', false},
		{"other key ignored", tcell.KeyRune, 'x', true},
		{"arrow ignored", tcell.KeyUp, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := app.handleKey(tt.key, tt.r); got != tt.want {
				t.Errorf("handleKey = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	app, _ := newTestApp(t, 80, 25)

	app.handleKey(tcell.KeyRune, ' ')
	if !app.runner.Paused() {
		t.Fatal("space did not pause")
	}
	app.handleKey(tcell.KeyRune, ' ')
	if app.runner.Paused() {
		t.Fatal("space did not resume")
	}
}

func TestSpeedAndZoneKeys(t *testing.T) {
	app, _ := newTestApp(t, 80, 25)

	app.handleKey(tcell.KeyRune, '+')
	app.handleKey(tcell.KeyRune, '+')
	if got := app.runner.StepsPerUpdate(); got != 3 {
		t.Errorf("StepsPerUpdate = %d, want 3", got)
	}
	for i := 0; i < 5; i++ {
		app.handleKey(tcell.KeyRune, '-')
	}
	if got := app.runner.StepsPerUpdate(); got != 1 {
		t.Errorf("StepsPerUpdate = %d, want 1", got)
	}

	before := app.runner.KillZoneEnabled()
	app.handleKey(tcell.KeyRune, 'k')
	if app.runner.KillZoneEnabled() == before {
		t.Error("k did not toggle the kill zone")
	}
}

func TestMouseDragSetsPointer(t *testing.T) {
	app, _ := newTestApp(t, 80, 25)

	app.handleEvent(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	p := app.runner.Pointer()
	if !p.Dragging || p.X != 10*CellWidth+CellWidth/2 || p.Y != 5*CellHeight+CellHeight/2 {
		t.Errorf("pointer during drag = %+v", p)
	}

	app.handleEvent(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	if app.runner.Pointer().Dragging {
		t.Error("pointer still dragging after release")
	}
}

func TestCellMapping(t *testing.T) {
	tests := []struct {
		pos  components.Position
		x, y int
	}{
		{components.Position{X: 0, Y: 0}, 0, 0},
		{components.Position{X: 7.9, Y: 15.9}, 0, 0},
		{components.Position{X: 8, Y: 16}, 1, 1},
		{components.Position{X: -0.5, Y: -1}, -1, -1},
	}

	for _, tt := range tests {
		if x, y := cellFor(tt.pos); x != tt.x || y != tt.y {
			t.Errorf("cellFor(%+v) = (%d,%d), want (%d,%d)", tt.pos, x, y, tt.x, tt.y)
		}
	}
}

func TestColorFor(t *testing.T) {
	got := colorFor(dna.Color{R: 200, G: 100, B: 50, A: 0.5})
	if want := tcell.NewRGBColor(100, 50, 25); got != want {
		t.Errorf("colorFor = %v, want %v", got, want)
	}
}
