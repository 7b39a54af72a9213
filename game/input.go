package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/creatures/population"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.runner.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	steps := g.runner.StepsPerUpdate()
	if rl.IsKeyPressed(rl.KeyComma) && steps > MinStepsPerUpdate {
		g.runner.SetStepsPerUpdate(steps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && steps < MaxStepsPerUpdate {
		g.runner.SetStepsPerUpdate(steps + 1)
	}

	if rl.IsKeyPressed(rl.KeyK) {
		g.runner.SetKillZoneEnabled(!g.runner.KillZoneEnabled())
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}
	if rl.IsKeyPressed(rl.KeyI) {
		g.info.Toggle(rl.GetTime())
	}

	g.handlePointer()
	g.inspector.HandleInput(rl.GetMousePosition(), g.runner)
}

// handlePointer turns a left-button drag into the removal zone. Drags that
// start on the info panel are left to raygui.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	dragging := rl.IsMouseButtonDown(rl.MouseButtonLeft)

	if dragging && g.info.Visible(rl.GetTime()) &&
		rl.CheckCollisionPointRec(mouse, g.info.Bounds(g.screenWidth, g.screenHeight)) {
		dragging = false
	}

	g.runner.SetPointer(population.Pointer{
		Dragging: dragging,
		X:        float64(mouse.X),
		Y:        float64(mouse.Y),
	})
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.runner.Resize(float64(w), float64(h))
}
