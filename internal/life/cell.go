// Package life implements the automaton engine: double-buffered grids of
// cells, Moore-neighborhood counting under wrap or clamp topology, the B3/S23
// transition rule and stochastic spark injection.
//
// The package has no knowledge of terminals, screens or storage. Presentation
// layers drive it by calling Universe.Tick and read state through the per-cell
// callback or the read-only View returned by Universe.Current.
package life

// Liveness is the binary state of a cell.
type Liveness uint8

const (
	Dead Liveness = iota
	Alive
)

// String returns a human-readable name for the liveness.
func (l Liveness) String() string {
	switch l {
	case Dead:
		return "Dead"
	case Alive:
		return "Alive"
	default:
		return "Unknown"
	}
}

// Cell is the minimal state unit of a grid.
type Cell struct {
	Live Liveness
	// Born is the generation at which the cell last became Alive.
	// Cells alive at genesis have Born == 0. Consumers use it for
	// age-based coloring; the automaton itself never reads it.
	Born uint64
}

// Alive reports whether the cell is alive.
func (c Cell) Alive() bool {
	return c.Live == Alive
}

// AliveCell returns an Alive cell born at the given generation.
func AliveCell(born uint64) Cell {
	return Cell{Live: Alive, Born: born}
}
