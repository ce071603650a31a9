package sink

import "github.com/vovakirdan/tui-life/internal/life"

// Mirror keeps a render handle for every live cell, in an array parallel to
// the grid. The grid itself never holds handles; Mirror creates one through
// Spawn when a cell is born and hands it to Release when the cell dies.
type Mirror[H any] struct {
	dims    life.Dims
	handles []H
	live    []bool
	count   int

	spawn   func(life.Coord) H
	release func(life.Coord, H)
}

// NewMirror creates an empty mirror for a grid of dims. release may be nil.
func NewMirror[H any](dims life.Dims, spawn func(life.Coord) H, release func(life.Coord, H)) *Mirror[H] {
	return &Mirror[H]{
		dims:    dims,
		handles: make([]H, dims.Len()),
		live:    make([]bool, dims.Len()),
		spawn:   spawn,
		release: release,
	}
}

func (m *Mirror[H]) index(c life.Coord) int {
	return (c.Z*m.dims.H()+c.Y)*m.dims.W() + c.X
}

// OnChange is a life.ChangeFunc spawning or releasing the handle of c.
func (m *Mirror[H]) OnChange(c life.Coord, live life.Liveness) {
	if !m.dims.Contains(c) {
		return
	}
	i := m.index(c)
	switch {
	case live == life.Alive && !m.live[i]:
		m.handles[i] = m.spawn(c)
		m.live[i] = true
		m.count++
	case live == life.Dead && m.live[i]:
		if m.release != nil {
			m.release(c, m.handles[i])
		}
		var zero H
		m.handles[i] = zero
		m.live[i] = false
		m.count--
	}
}

// Sync spawns handles for every live cell of v, typically once at genesis.
func (m *Mirror[H]) Sync(v life.View) {
	v.Each(func(c life.Coord, cell life.Cell) {
		m.OnChange(c, cell.Live)
	})
}

// Handle returns the handle of the live cell at c.
func (m *Mirror[H]) Handle(c life.Coord) (H, bool) {
	var zero H
	if !m.dims.Contains(c) {
		return zero, false
	}
	i := m.index(c)
	if !m.live[i] {
		return zero, false
	}
	return m.handles[i], true
}

// Len returns the number of live handles.
func (m *Mirror[H]) Len() int {
	return m.count
}

// Fanout combines change callbacks into one. Nil entries are skipped.
func Fanout(fns ...life.ChangeFunc) life.ChangeFunc {
	active := make([]life.ChangeFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(c life.Coord, live life.Liveness) {
		for _, fn := range active {
			fn(c, live)
		}
	}
}
