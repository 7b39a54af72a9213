package game

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/sim"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 26
	LineHeight   = 18
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 230}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector shows the DNA of a creature picked with the right mouse button.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
}

// HandleInput selects the creature under the cursor on right click;
// right-clicking empty space deselects.
func (ins *Inspector) HandleInput(mouse rl.Vector2, r *sim.Runner) {
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return
	}

	e, ok := r.CreatureAt(float64(mouse.X), float64(mouse.Y))
	if !ok {
		ins.Deselect()
		return
	}
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Draw outlines the selected creature and renders its panel. The selection
// is dropped once the creature dies.
func (ins *Inspector) Draw(r *sim.Runner) {
	if !ins.hasSelected {
		return
	}

	c, ok := r.Creature(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}

	rl.DrawCircleLines(int32(c.Position.X), int32(c.Position.Y), float32(c.Radius())+3, rl.Black)

	lines := inspectorLines(c, r)
	panelX := int32(PanelPadding)
	panelY := int32(140)
	panelHeight := int32(HeaderHeight + PanelPadding + len(lines)*LineHeight)

	rl.DrawRectangle(panelX, panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangle(panelX, panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(panelX), Y: float32(panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)
	rl.DrawText("Creature", panelX+PanelPadding, panelY+6, 16, ColorHeaderText)
	rl.DrawCircle(panelX+PanelWidth-20, panelY+HeaderHeight/2, 8, toRaylibColor(c.Color))

	y := panelY + HeaderHeight + PanelPadding/2
	for _, line := range lines {
		rl.DrawText(line, panelX+PanelPadding, y, 14, ColorSectionText)
		y += LineHeight
	}
}

// inspectorLines formats the panel body for c.
func inspectorLines(c components.Creature, r *sim.Runner) []string {
	genes := make([]string, len(dna.Genes))
	for i, g := range dna.Genes {
		genes[i] = g.Digits(c.DNA)
	}

	age := r.Now() - c.Birthdate
	return []string{
		"DNA   " + strings.Join(genes, " "),
		fmt.Sprintf("Size  %d", c.Size),
		fmt.Sprintf("RGBA  %d %d %d %.2f", c.Color.R, c.Color.G, c.Color.B, c.Color.A),
		fmt.Sprintf("Vel   %.2f, %.2f", c.Velocity.X, c.Velocity.Y),
		fmt.Sprintf("Pos   %.0f, %.0f", c.Position.X, c.Position.Y),
		fmt.Sprintf("Age   %.1fs / %.1fs", age.Seconds(), c.Lifespan.Seconds()),
	}
}
