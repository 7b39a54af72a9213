package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/dna"
)

// Draw renders the game.
func (g *Game) Draw() {
	g.runner.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	g.drawCreatures()
	g.drawKillZone()

	if g.showHUD {
		g.drawHUD()
	}
	g.inspector.Draw(g.runner)

	g.info.Draw(rl.GetTime(), g.screenWidth, g.screenHeight)

	rl.EndDrawing()
}

// drawCreatures renders every live creature as a filled circle.
func (g *Game) drawCreatures() {
	g.runner.Each(func(c components.Creature) {
		center := rl.Vector2{X: float32(c.Position.X), Y: float32(c.Position.Y)}
		rl.DrawCircleV(center, float32(c.Radius()), toRaylibColor(c.Color))
	})
}

// drawKillZone outlines the removal zone while it is active.
func (g *Game) drawKillZone() {
	p := g.runner.Pointer()
	if !p.Dragging || !g.runner.KillZoneEnabled() {
		return
	}
	rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(g.runner.KillZoneRadius()), rl.Red)
}

// drawHUD renders run counters in the top-left corner.
func (g *Game) drawHUD() {
	totals := g.runner.Totals()

	rl.DrawText(fmt.Sprintf("Tick: %d  Time: %.1fs", g.runner.Tick(), g.runner.Now().Seconds()), 10, 10, 20, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Creatures: %d  Born: %d  Died: %d", g.runner.Population(), totals.Born, totals.DiedOfAge+totals.DiedInZone), 10, 35, 20, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]", g.runner.StepsPerUpdate()), 10, 60, 20, rl.DarkGray)

	zone, zoneColor := "OFF", rl.Gray
	if g.runner.KillZoneEnabled() {
		zone, zoneColor = "ON", rl.Maroon
	}
	rl.DrawText(fmt.Sprintf("[K] Kill zone: %s", zone), 10, 85, 20, zoneColor)

	if g.runner.Paused() {
		rl.DrawText("PAUSED", 10, 110, 20, rl.Orange)
	}

	stats := g.runner.PerfStats()
	rl.DrawText(fmt.Sprintf("FPS: %.0f  TPS: %.0f", stats.FPS, stats.TicksPerSecond), 10, int32(g.screenHeight)-25, 16, rl.Gray)
}

// toRaylibColor converts a decoded creature color; alpha maps [0,1] to [0,255].
func toRaylibColor(c dna.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}
