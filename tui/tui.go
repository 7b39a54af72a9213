// Package tui hosts the simulation in a terminal using tcell.
package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/dna"
	"github.com/pthm-cable/creatures/population"
	"github.com/pthm-cable/creatures/sim"
)

// Each terminal cell stands for a CellWidth x CellHeight patch of arena.
const (
	CellWidth  = 8
	CellHeight = 16
)

const glyph = '●'

// App runs the simulation on a tcell screen.
type App struct {
	screen tcell.Screen
	runner *sim.Runner

	cols, rows    int
	frameInterval time.Duration
}

// New binds an initialized screen to runner and sizes the arena to it.
func New(screen tcell.Screen, runner *sim.Runner, frameInterval time.Duration) *App {
	if frameInterval <= 0 {
		frameInterval = 16 * time.Millisecond
	}
	a := &App{
		screen:        screen,
		runner:        runner,
		frameInterval: frameInterval,
	}
	screen.EnableMouse()
	a.handleResize()
	return a
}

// Run drives the simulation until the user quits or maxTicks is reached
// (0 = unlimited). Terminal events are read on a separate goroutine; all
// simulation calls stay on the caller's goroutine.
func (a *App) Run(maxTicks int) error {
	ticker := time.NewTicker(a.frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			eventChan <- ev
			if ev == nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !a.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if err := a.runner.Update(); err != nil {
				return err
			}
			a.Draw()

			if maxTicks > 0 && int(a.runner.Tick()) >= maxTicks {
				return nil
			}
		}
	}
}

// handleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())

	case *tcell.EventMouse:
		x, y := ev.Position()
		ax, ay := cellCenter(x, y)
		a.runner.SetPointer(population.Pointer{
			Dragging: ev.Buttons()&tcell.Button1 != 0,
			X:        ax,
			Y:        ay,
		})

	case *tcell.EventResize:
		a.handleResize()
		a.screen.Sync()
	}

	return true
}

func (a *App) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		a.runner.TogglePause()
	case 'k', 'K':
		a.runner.SetKillZoneEnabled(!a.runner.KillZoneEnabled())
	case '+', '>', '.':
		a.runner.SetStepsPerUpdate(a.runner.StepsPerUpdate() + 1)
	case '-', '<', ',':
		a.runner.SetStepsPerUpdate(a.runner.StepsPerUpdate() - 1)
	}
	return true
}

// handleResize maps the terminal grid, minus the status line, to the arena.
func (a *App) handleResize() {
	a.cols, a.rows = a.screen.Size()
	rows := max(a.rows-1, 1)
	a.runner.Resize(float64(a.cols*CellWidth), float64(rows*CellHeight))
}

// Draw renders the arena and the status line.
func (a *App) Draw() {
	a.screen.Clear()

	arenaRows := a.rows - 1
	a.runner.Each(func(c components.Creature) {
		x, y := cellFor(c.Position)
		if x < 0 || x >= a.cols || y < 0 || y >= arenaRows {
			return
		}
		a.screen.SetContent(x, y, glyph, nil, tcell.StyleDefault.Foreground(colorFor(c.Color)))
	})

	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawStatus() {
	if a.rows < 1 {
		return
	}

	status := fmt.Sprintf(" tick %d  creatures %d  speed %dx  zone %s  [space] pause  [k] zone  [q] quit",
		a.runner.Tick(), a.runner.Population(), a.runner.StepsPerUpdate(), onOff(a.runner.KillZoneEnabled()))
	if a.runner.Paused() {
		status = " PAUSED" + status
	}

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= a.cols {
			break
		}
		a.screen.SetContent(x, a.rows-1, r, nil, style)
		x++
	}
	for ; x < a.cols; x++ {
		a.screen.SetContent(x, a.rows-1, ' ', nil, style)
	}
}

// cellFor returns the terminal cell containing an arena position.
func cellFor(pos components.Position) (int, int) {
	return int(math.Floor(pos.X / CellWidth)), int(math.Floor(pos.Y / CellHeight))
}

// cellCenter returns the arena position at the centre of a terminal cell.
func cellCenter(x, y int) (float64, float64) {
	return float64(x*CellWidth) + CellWidth/2, float64(y*CellHeight) + CellHeight/2
}

// colorFor premultiplies the creature color against a black background.
func colorFor(c dna.Color) tcell.Color {
	scale := func(v uint8) int32 {
		return int32(math.Round(float64(v) * c.A))
	}
	return tcell.NewRGBColor(scale(c.R), scale(c.G), scale(c.B))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
