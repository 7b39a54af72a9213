// Package game hosts the simulation in a raylib window.
package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/sim"
)

// Speed limits for the steps-per-update keys.
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 10
)

// Game wires a sim.Runner to window input and drawing.
type Game struct {
	runner    *sim.Runner
	info      *InfoOverlay
	inspector *Inspector

	// Window dimensions
	screenWidth, screenHeight float32

	showHUD bool
}

// New creates a game for an already opened window.
func New(cfg *config.Config, runner *sim.Runner) *Game {
	g := &Game{
		runner:       runner,
		info:         NewInfoOverlay(cfg.Overlay.Enabled, cfg.Overlay.InfoDelayMs, rl.GetTime()),
		inspector:    &Inspector{},
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
		showHUD:      true,
	}
	runner.Resize(float64(g.screenWidth), float64(g.screenHeight))
	return g
}

// Update handles input and advances the simulation.
func (g *Game) Update() error {
	g.handleInput()
	return g.runner.Update()
}

// Tick returns the number of simulation ticks run so far.
func (g *Game) Tick() int32 {
	return g.runner.Tick()
}
