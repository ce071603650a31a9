package sink

import (
	"image/color"

	"github.com/vovakirdan/tui-life/internal/life"
)

// DefaultPalette is cycled through for newly born cells.
var DefaultPalette = []color.RGBA{
	{0, 0, 255, 255},     // blue
	{0, 255, 255, 255},   // cyan
	{0, 128, 0, 255},     // green
	{0, 255, 0, 255},     // lime
	{255, 0, 255, 255},   // magenta
	{128, 0, 0, 255},     // maroon
	{0, 0, 128, 255},     // navy
	{128, 128, 0, 255},   // olive
	{128, 0, 128, 255},   // purple
	{255, 0, 0, 255},     // red
	{192, 192, 192, 255}, // silver
	{0, 128, 128, 255},   // teal
	{255, 255, 0, 255},   // yellow
}

var black = color.RGBA{0, 0, 0, 255}

// Pixels keeps an RGBA image of one Z layer, four bytes per cell in
// row-major order. A cell keeps the color it was born with until it dies;
// dead cells are opaque black.
type Pixels struct {
	w, h    int
	layer   int
	buf     []byte
	alive   []bool
	palette []color.RGBA
	next    int
}

// NewPixels creates a black buffer for layer 0 of dims.
// A nil or empty palette uses DefaultPalette.
func NewPixels(dims life.Dims, palette []color.RGBA) *Pixels {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := &Pixels{
		w:       dims.W(),
		h:       dims.H(),
		buf:     make([]byte, dims.W()*dims.H()*4),
		alive:   make([]bool, dims.W()*dims.H()),
		palette: palette,
	}
	for i := range p.alive {
		p.put(i, black)
	}
	return p
}

// SetLayer selects the Z layer mirrored by the buffer and clears it.
// Call Sync afterwards to repaint.
func (p *Pixels) SetLayer(z int) {
	p.layer = z
	for i := range p.alive {
		p.alive[i] = false
		p.put(i, black)
	}
}

// Width returns the buffer width in pixels.
func (p *Pixels) Width() int { return p.w }

// Height returns the buffer height in pixels.
func (p *Pixels) Height() int { return p.h }

// OnChange is a life.ChangeFunc updating the buffer for one cell.
func (p *Pixels) OnChange(c life.Coord, live life.Liveness) {
	if c.Z != p.layer || c.X < 0 || c.X >= p.w || c.Y < 0 || c.Y >= p.h {
		return
	}
	i := c.Y*p.w + c.X
	switch {
	case live == life.Alive && !p.alive[i]:
		p.alive[i] = true
		p.put(i, p.palette[p.next%len(p.palette)])
		p.next++
	case live == life.Dead && p.alive[i]:
		p.alive[i] = false
		p.put(i, black)
	}
}

// Sync repaints the buffer from a grid view, for example right after
// construction before the first tick.
func (p *Pixels) Sync(v life.View) {
	v.Each(func(c life.Coord, cell life.Cell) {
		p.OnChange(c, cell.Live)
	})
}

func (p *Pixels) put(i int, c color.RGBA) {
	o := i * 4
	p.buf[o] = c.R
	p.buf[o+1] = c.G
	p.buf[o+2] = c.B
	p.buf[o+3] = c.A
}

// At returns the color at (x, y). ok is false when out of bounds.
func (p *Pixels) At(x, y int) (c color.RGBA, ok bool) {
	if x < 0 || x >= p.w || y < 0 || y >= p.h {
		return color.RGBA{}, false
	}
	o := (y*p.w + x) * 4
	return color.RGBA{p.buf[o], p.buf[o+1], p.buf[o+2], p.buf[o+3]}, true
}

// Bytes returns a copy of the RGBA buffer.
func (p *Pixels) Bytes() []byte {
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out
}
