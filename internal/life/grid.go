package life

import (
	"fmt"
	"strings"
)

// Grid is a dense array of cells stored in row-major order with Z outermost:
// index = (z*H + y)*W + x.
type Grid struct {
	dims    Dims
	cells   []Cell
	offsets []Coord
}

// NewGrid allocates a grid of Dead cells.
func NewGrid(dims Dims) (*Grid, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	offsets := moore2
	if dims.Rank() == 3 {
		offsets = moore3
	}
	return &Grid{
		dims:    dims,
		cells:   make([]Cell, dims.Len()),
		offsets: offsets,
	}, nil
}

// MustGrid is like NewGrid but panics on invalid dimensions.
func MustGrid(dims Dims) *Grid {
	g, err := NewGrid(dims)
	if err != nil {
		panic(err)
	}
	return g
}

// Dims returns the grid extents.
func (g *Grid) Dims() Dims {
	return g.dims
}

func (g *Grid) index(c Coord) int {
	return (c.Z*g.dims.H()+c.Y)*g.dims.W() + c.X
}

func (g *Grid) coordAt(i int) Coord {
	w, h := g.dims.W(), g.dims.H()
	return Coord{X: i % w, Y: (i / w) % h, Z: i / (w * h)}
}

// mustContain panics when c is outside the grid. Out-of-bounds access is a
// caller bug, never a recoverable condition.
func (g *Grid) mustContain(c Coord) {
	if !g.dims.Contains(c) {
		panic(fmt.Sprintf("life: coordinate %v out of bounds for %v grid", c, g.dims))
	}
}

// InBounds reports whether c addresses a cell of the grid.
func (g *Grid) InBounds(c Coord) bool {
	return g.dims.Contains(c)
}

// Set replaces the cell at c. Panics if c is out of bounds.
func (g *Grid) Set(c Coord, cell Cell) {
	g.mustContain(c)
	g.cells[g.index(c)] = cell
}

// Get returns the cell at c. Panics if c is out of bounds.
func (g *Grid) Get(c Coord) Cell {
	g.mustContain(c)
	return g.cells[g.index(c)]
}

// IsAlive reports whether the cell at c is alive. Panics if c is out of bounds.
func (g *Grid) IsAlive(c Coord) bool {
	return g.Get(c).Alive()
}

// CountLiveNeighbors sums liveness over the Moore neighborhood of c: 8 cells
// on planar grids, 26 on volumetric ones. Under Wrap every axis wraps modulo
// its extent; under Clamp offsets landing outside the grid are skipped.
func (g *Grid) CountLiveNeighbors(c Coord, topo Topology) int {
	g.mustContain(c)
	return g.countAt(c, topo)
}

func (g *Grid) countAt(c Coord, topo Topology) int {
	w, h, d := g.dims.W(), g.dims.H(), g.dims.D()
	count := 0
	for _, off := range g.offsets {
		x, y, z := c.X+off.X, c.Y+off.Y, c.Z+off.Z
		if topo == Wrap {
			x = wrap(x, w)
			y = wrap(y, h)
			z = wrap(z, d)
		} else if x < 0 || x >= w || y < 0 || y >= h || z < 0 || z >= d {
			continue
		}
		if g.cells[(z*h+y)*w+x].Live == Alive {
			count++
		}
	}
	return count
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

// Population returns the number of Alive cells.
func (g *Grid) Population() int {
	count := 0
	for _, cell := range g.cells {
		if cell.Live == Alive {
			count++
		}
	}
	return count
}

// Each calls fn for every cell in storage order (x fastest, z slowest).
func (g *Grid) Each(fn func(Coord, Cell)) {
	for i, cell := range g.cells {
		fn(g.coordAt(i), cell)
	}
}

// Clear kills every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{dims: g.dims, cells: cells, offsets: g.offsets}
}

// Equal reports whether two grids have the same dimensions and liveness
// everywhere. Birth generations are not compared.
func (g *Grid) Equal(other *Grid) bool {
	if g.dims != other.dims {
		return false
	}
	for i, cell := range g.cells {
		if cell.Live != other.cells[i].Live {
			return false
		}
	}
	return true
}

// String renders the grid with '#' for Alive and '.' for Dead, one row per
// line. Volumetric layers are separated by a blank line.
func (g *Grid) String() string {
	w, h, d := g.dims.W(), g.dims.H(), g.dims.D()
	var sb strings.Builder
	sb.Grow(g.dims.Len() + h*d + d)
	for z := 0; z < d; z++ {
		if z > 0 {
			sb.WriteString("\n\n")
		}
		for y := 0; y < h; y++ {
			if y > 0 {
				sb.WriteByte('\n')
			}
			row := (z*h + y) * w
			for x := 0; x < w; x++ {
				if g.cells[row+x].Live == Alive {
					sb.WriteByte('#')
				} else {
					sb.WriteByte('.')
				}
			}
		}
	}
	return sb.String()
}

// View is a read-only window onto a grid owned by a Universe.
type View struct {
	g *Grid
}

// View returns a read-only window onto g. Callers must not mutate g while
// the view is in use.
func (g *Grid) View() View {
	return View{g: g}
}

// Dims returns the grid extents.
func (v View) Dims() Dims { return v.g.dims }

// Get returns the cell at c. Panics if c is out of bounds.
func (v View) Get(c Coord) Cell { return v.g.Get(c) }

// IsAlive reports whether the cell at c is alive.
func (v View) IsAlive(c Coord) bool { return v.g.IsAlive(c) }

// CountLiveNeighbors counts live neighbors of c under topo.
func (v View) CountLiveNeighbors(c Coord, topo Topology) int {
	return v.g.CountLiveNeighbors(c, topo)
}

// Population returns the number of Alive cells.
func (v View) Population() int { return v.g.Population() }

// Each calls fn for every cell in storage order.
func (v View) Each(fn func(Coord, Cell)) { v.g.Each(fn) }

// Clone returns a mutable copy of the viewed grid.
func (v View) Clone() *Grid { return v.g.Clone() }

// String renders the viewed grid.
func (v View) String() string { return v.g.String() }
