package sink

import "github.com/vovakirdan/tui-life/internal/life"

// Sample is one population reading taken by a Census. Born, Died and
// Sparked accumulate over the ticks since the previous sample.
type Sample struct {
	Generation uint64
	Population int
	Born       int
	Died       int
	Sparked    int
}

// Census accumulates tick statistics into periodic samples.
type Census struct {
	every   int
	pending Sample
	samples []Sample
	peak    int
	last    life.TickStats
	ticks   int
}

// NewCensus creates a census sampling every n ticks (at least 1).
func NewCensus(every int) *Census {
	if every < 1 {
		every = 1
	}
	return &Census{every: every}
}

// Record adds one tick's statistics.
func (c *Census) Record(s life.TickStats) {
	c.ticks++
	c.last = s
	if s.Population > c.peak {
		c.peak = s.Population
	}
	c.pending.Born += s.Born
	c.pending.Died += s.Died
	c.pending.Sparked += s.Sparked
	if c.ticks%c.every == 0 {
		c.flush()
	}
}

func (c *Census) flush() {
	c.pending.Generation = c.last.Generation
	c.pending.Population = c.last.Population
	c.samples = append(c.samples, c.pending)
	c.pending = Sample{}
}

// Seed records the genesis population so Peak covers generation 0.
func (c *Census) Seed(population int) {
	if population > c.peak {
		c.peak = population
	}
}

// Samples returns the samples taken so far plus a trailing partial sample
// when ticks have been recorded since the last one.
func (c *Census) Samples() []Sample {
	out := make([]Sample, len(c.samples), len(c.samples)+1)
	copy(out, c.samples)
	if c.ticks%c.every != 0 {
		partial := c.pending
		partial.Generation = c.last.Generation
		partial.Population = c.last.Population
		out = append(out, partial)
	}
	return out
}

// Peak returns the highest population seen.
func (c *Census) Peak() int {
	return c.peak
}

// Last returns the statistics of the most recent tick.
func (c *Census) Last() life.TickStats {
	return c.last
}

// Ticks returns the number of recorded ticks.
func (c *Census) Ticks() int {
	return c.ticks
}

// Reset discards everything recorded.
func (c *Census) Reset() {
	every := c.every
	*c = Census{every: every}
}
