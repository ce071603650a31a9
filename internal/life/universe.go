package life

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// DefaultFill is the genesis probability of a cell starting Alive.
const DefaultFill = 0.5

// Options configures a Universe.
type Options struct {
	Dims     Dims
	Topology Topology
	Seed     SeedPolicy
	Spark    Spark
	// Fill is the genesis Alive probability. Zero means DefaultFill; use
	// NewFromGrid for an explicit starting configuration.
	Fill float64
	// Workers > 1 counts neighbors on that many goroutines. Results do not
	// depend on the worker count.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Fill == 0 {
		o.Fill = DefaultFill
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Spark.Mode == SparkClock && o.Spark.Clock == nil {
		o.Spark.Clock = wallClockMillis
	}
	return o
}

// Validate checks dimensions, fill and spark settings.
func (o Options) Validate() error {
	if err := o.Dims.Validate(); err != nil {
		return err
	}
	if o.Fill < 0 || o.Fill > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidFill, o.Fill)
	}
	return o.Spark.Validate()
}

// ChangeFunc receives the new liveness of every cell after each tick.
type ChangeFunc func(c Coord, live Liveness)

// TickStats summarizes one generation.
type TickStats struct {
	Generation uint64
	Population int
	Born       int // Dead -> Alive transitions, sparks included
	Died       int // Alive -> Dead transitions
	Sparked    int // cells forced Alive against the neighbor rule
}

// Universe owns two grids of identical dimensions and alternates which one
// is current on every tick.
type Universe struct {
	opts    Options
	seed    int64
	rng     *rand.Rand
	twin    [2]*Grid
	current int
	now     uint64

	// counts holds the neighbor count of every cell of the previous buffer.
	counts []uint8
	bands  [][2]int
}

// New builds a universe whose first buffer is filled at random: every cell
// is independently Alive with probability opts.Fill.
func New(opts Options) (*Universe, error) {
	u, err := newUniverse(opts)
	if err != nil {
		return nil, err
	}
	g := u.twin[0]
	for i := range g.cells {
		if u.rng.Float64() < u.opts.Fill {
			g.cells[i] = AliveCell(0)
		}
	}
	return u, nil
}

// NewFromGrid builds a universe whose first buffer is a copy of seed.
// Alive cells of the copy are given Born == 0.
func NewFromGrid(opts Options, seed *Grid) (*Universe, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrDimsMismatch)
	}
	if opts.Dims.Rank() == 0 {
		opts.Dims = seed.Dims()
	}
	if seed.Dims() != opts.Dims {
		return nil, fmt.Errorf("%w: grid %v, options %v", ErrDimsMismatch, seed.Dims(), opts.Dims)
	}
	u, err := newUniverse(opts)
	if err != nil {
		return nil, err
	}
	for i, cell := range seed.cells {
		if cell.Alive() {
			u.twin[0].cells[i] = AliveCell(0)
		}
	}
	return u, nil
}

func newUniverse(opts Options) (*Universe, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	seed, err := opts.Seed.resolve()
	if err != nil {
		return nil, err
	}

	u := &Universe{
		opts:   opts,
		seed:   seed,
		rng:    newRand(seed),
		counts: make([]uint8, opts.Dims.Len()),
	}
	for i := range u.twin {
		g, gridErr := NewGrid(opts.Dims)
		if gridErr != nil {
			return nil, gridErr
		}
		u.twin[i] = g
	}
	u.bands = splitBands(opts.Dims, opts.Workers)
	return u, nil
}

// splitBands partitions the flat cell range into whole rows, one band per
// worker. Every band has at least one row.
func splitBands(dims Dims, workers int) [][2]int {
	rows := dims.H() * dims.D()
	if workers > rows {
		workers = rows
	}
	per := rows / workers
	if per*workers < rows {
		per++
	}
	w := dims.W()
	bands := make([][2]int, 0, workers)
	for r := 0; r < rows; r += per {
		end := r + per
		if end > rows {
			end = rows
		}
		bands = append(bands, [2]int{r * w, end * w})
	}
	return bands
}

// Tick advances the universe by one generation and returns its statistics.
// If onChange is non-nil it is called once per cell, in storage order, with
// the cell's new liveness after the cell has been written.
func (u *Universe) Tick(onChange ChangeFunc) TickStats {
	prev := u.twin[u.current]
	nextIdx := 1 - u.current
	next := u.twin[nextIdx]
	u.now++

	u.countNeighbors(prev)

	var clock uint64
	if u.opts.Spark.Mode == SparkClock {
		clock = u.opts.Spark.Clock()
	}
	uniform := u.opts.Spark.Mode == SparkUniform && u.opts.Spark.Probability > 0

	stats := TickStats{Generation: u.now}
	for i, old := range prev.cells {
		n := int(u.counts[i])
		live := nextLiveness(old.Live, n)

		if uniform {
			if u.rng.Float64() < u.opts.Spark.Probability && live == Dead {
				live = Alive
				stats.Sparked++
			}
		} else if live == Dead && u.opts.Spark.Mode == SparkClock {
			if u.opts.Spark.clockRevives(clock, prev.coordAt(i), n) {
				live = Alive
				stats.Sparked++
			}
		}

		cell := Cell{Live: live}
		switch {
		case live == Alive && old.Live == Alive:
			cell.Born = old.Born
			stats.Population++
		case live == Alive:
			cell.Born = u.now
			stats.Population++
			stats.Born++
		case old.Live == Alive:
			stats.Died++
		}
		next.cells[i] = cell

		if onChange != nil {
			onChange(prev.coordAt(i), live)
		}
	}

	u.current = nextIdx
	return stats
}

// nextLiveness applies B3/S23 to a cell with n live neighbors.
func nextLiveness(cur Liveness, n int) Liveness {
	switch {
	case n <= 1:
		return Dead
	case n == 3:
		return Alive
	case n >= 4:
		return Dead
	default:
		// n == 2: the cell keeps its state.
		if cur == Alive {
			return Alive
		}
		return Dead
	}
}

// countNeighbors fills u.counts from prev. With more than one band the bands
// are counted concurrently; each goroutine reads only prev and writes only
// its own slice of counts.
func (u *Universe) countNeighbors(prev *Grid) {
	topo := u.opts.Topology
	if len(u.bands) == 1 {
		u.countBand(prev, topo, u.bands[0])
		return
	}
	var wg sync.WaitGroup
	for _, band := range u.bands {
		wg.Add(1)
		go func(b [2]int) {
			defer wg.Done()
			u.countBand(prev, topo, b)
		}(band)
	}
	wg.Wait()
}

func (u *Universe) countBand(prev *Grid, topo Topology, band [2]int) {
	for i := band[0]; i < band[1]; i++ {
		u.counts[i] = uint8(prev.countAt(prev.coordAt(i), topo))
	}
}

// Current returns a read-only view of the current buffer.
func (u *Universe) Current() View {
	return View{g: u.twin[u.current]}
}

// IsAlive reports whether the cell at c is alive in the current buffer.
func (u *Universe) IsAlive(c Coord) bool {
	return u.twin[u.current].IsAlive(c)
}

// Generation returns the number of ticks applied so far.
func (u *Universe) Generation() uint64 {
	return u.now
}

// Buffer returns the index (0 or 1) of the current buffer.
func (u *Universe) Buffer() int {
	return u.current
}

// Dims returns the grid extents.
func (u *Universe) Dims() Dims {
	return u.opts.Dims
}

// Topology returns the neighbor policy.
func (u *Universe) Topology() Topology {
	return u.opts.Topology
}

// Seed returns the seed the random source was built from. Passing it back
// through Seeded reproduces the run.
func (u *Universe) Seed() int64 {
	return u.seed
}

// Options returns the effective options, defaults applied.
func (u *Universe) Options() Options {
	return u.opts
}
