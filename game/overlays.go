package game

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
)

// Info panel layout
const (
	infoWidth   = 420
	infoHeight  = 230
	infoMargin  = 20
	infoPadding = 12
)

const infoText = "Every circle is a creature with its own 17-digit DNA.\n" +
	"The DNA alone decides how it looks and how it moves.\n\n" +
	"Creatures live for ten seconds. Now and then one mates\n" +
	"with a partner and their offspring inherits a mix of\n" +
	"both genomes, with the odd mutation.\n\n" +
	"Drag the mouse to wipe creatures out. SPACE pauses."

// InfoOverlay is the dismissable explanation panel shown shortly after start.
type InfoOverlay struct {
	enabled   bool
	showAt    float64 // window time in seconds
	dismissed bool
}

// NewInfoOverlay creates an overlay that appears delayMs after start.
func NewInfoOverlay(enabled bool, delayMs int, start float64) *InfoOverlay {
	return &InfoOverlay{
		enabled: enabled,
		showAt:  start + float64(delayMs)/1000,
	}
}

// Visible reports whether the panel is on screen at window time now.
func (o *InfoOverlay) Visible(now float64) bool {
	return o.enabled && !o.dismissed && now >= o.showAt
}

// Toggle dismisses a visible panel, or shows a hidden one immediately.
func (o *InfoOverlay) Toggle(now float64) {
	if o.Visible(now) {
		o.dismissed = true
		return
	}
	o.enabled = true
	o.dismissed = false
	o.showAt = now
}

// Bounds returns the panel rectangle, anchored bottom-right.
func (o *InfoOverlay) Bounds(screenW, screenH float32) rl.Rectangle {
	return rl.Rectangle{
		X:      screenW - infoWidth - infoMargin,
		Y:      screenH - infoHeight - infoMargin,
		Width:  infoWidth,
		Height: infoHeight,
	}
}

// Draw renders the panel when visible. The OK button dismisses it.
func (o *InfoOverlay) Draw(now float64, screenW, screenH float32) {
	if !o.Visible(now) {
		return
	}

	b := o.Bounds(screenW, screenH)
	gui.Panel(b, "Creatures")

	for i, line := range strings.Split(infoText, "\n") {
		gui.Label(rl.Rectangle{
			X:      b.X + infoPadding,
			Y:      b.Y + 30 + float32(i)*14,
			Width:  b.Width - 2*infoPadding,
			Height: 14,
		}, line)
	}

	if gui.Button(rl.Rectangle{X: b.X + b.Width - 80 - infoPadding, Y: b.Y + b.Height - 30 - infoPadding/2, Width: 80, Height: 26}, "OK") {
		o.dismissed = true
	}
}
