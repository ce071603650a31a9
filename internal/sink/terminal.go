// Package sink holds consumers of the automaton's output: a character view
// for terminals, an RGBA pixel buffer, a mirror of per-cell render handles
// and a population census. Every sink is plain data driven by
// life.Universe.Tick and its per-cell callback.
package sink

import (
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/life"
)

// AliveRune is drawn for live cells.
const AliveRune = '█'

// Age thresholds, in generations, for terminal coloring.
const (
	youngAge = 8
	oldAge   = 64
)

// AgeColor picks a color for a live cell of the given age.
func AgeColor(age uint64) core.Color {
	switch {
	case age == 0:
		return core.ColorBrightGreen
	case age < youngAge:
		return core.ColorGreen
	case age < oldAge:
		return core.ColorCyan
	default:
		return core.ColorBlue
	}
}

// Terminal draws one Z layer of a grid onto a core.Screen.
type Terminal struct {
	layer int
}

// NewTerminal creates a terminal view showing layer 0.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Layer returns the Z layer being drawn.
func (t *Terminal) Layer() int {
	return t.layer
}

// SetLayer selects the Z layer to draw. Values outside [0, depth) wrap.
func (t *Terminal) SetLayer(z, depth int) {
	t.layer = 0
	t.ShiftLayer(z, depth)
}

// ShiftLayer moves the drawn layer by delta, wrapping around depth.
func (t *Terminal) ShiftLayer(delta, depth int) {
	if depth <= 0 {
		t.layer = 0
		return
	}
	t.layer = ((t.layer+delta)%depth + depth) % depth
}

// Draw renders the view into area of dst. Cells that do not fit are clipped.
// now is the universe generation, used to age live cells.
func (t *Terminal) Draw(dst *core.Screen, area core.Rect, v life.View, now uint64) {
	dims := v.Dims()
	if t.layer >= dims.D() {
		t.layer = 0
	}
	w := core.Min(dims.W(), area.W)
	h := core.Min(dims.H(), area.H)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := v.Get(life.C3(x, y, t.layer))
			if !cell.Alive() {
				dst.SetCell(area.X+x, area.Y+y, core.Cell{Rune: ' '})
				continue
			}
			dst.SetCell(area.X+x, area.Y+y, core.Cell{
				Rune:  AliveRune,
				Color: AgeColor(now - cell.Born),
			})
		}
	}
}
