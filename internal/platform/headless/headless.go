// Package headless drives a universe without a terminal: a fixed number of
// generations, a census of the run, cell lifespan tracking and an optional
// pixel buffer that can be exported as PNG.
package headless

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/sink"
)

// Options configures a headless run.
type Options struct {
	Generations   int
	SampleEvery   int
	StopOnExtinct bool         // stop early when nothing is alive and no spark can revive it
	Pixels        *sink.Pixels // optional
}

// Lifespans summarizes how long cells stayed alive. Cells still alive when
// the run ends are not counted.
type Lifespans struct {
	Deaths  int
	Total   uint64
	Longest uint64
}

// Mean returns the average lifespan in generations, or 0 when no cell died.
func (l Lifespans) Mean() float64 {
	if l.Deaths == 0 {
		return 0
	}
	return float64(l.Total) / float64(l.Deaths)
}

// Result describes a finished headless run.
type Result struct {
	Generations uint64
	Extinct     bool
	Canceled    bool
	Census      *sink.Census
	Lifespans   Lifespans
}

// Run advances u up to opts.Generations times. It stops early when ctx is
// done or, with StopOnExtinct, when the universe dies out without a spark
// source.
func Run(ctx context.Context, u *life.Universe, opts Options) Result {
	census := sink.NewCensus(opts.SampleEvery)
	census.Seed(u.Current().Population())

	var (
		gen   uint64
		spans Lifespans
	)
	births := sink.NewMirror(u.Dims(),
		func(life.Coord) uint64 { return gen },
		func(_ life.Coord, born uint64) {
			age := gen - born
			spans.Deaths++
			spans.Total += age
			if age > spans.Longest {
				spans.Longest = age
			}
		},
	)
	gen = u.Generation()
	births.Sync(u.Current())

	var draw life.ChangeFunc
	if opts.Pixels != nil {
		opts.Pixels.Sync(u.Current())
		draw = opts.Pixels.OnChange
	}
	onChange := sink.Fanout(births.OnChange, draw)

	res := Result{Census: census}
	sparkOff := u.Options().Spark.Mode == life.SparkOff
	for i := 0; i < opts.Generations; i++ {
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}
		gen = u.Generation() + 1
		stats := u.Tick(onChange)
		census.Record(stats)
		if stats.Population == 0 && sparkOff {
			res.Extinct = true
			if opts.StopOnExtinct {
				break
			}
		}
	}

	res.Generations = u.Generation()
	res.Lifespans = spans
	return res
}

// WritePNG encodes the pixel buffer as a PNG image.
func WritePNG(w io.Writer, p *sink.Pixels) error {
	img := image.NewRGBA(image.Rect(0, 0, p.Width(), p.Height()))
	copy(img.Pix, p.Bytes())
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("headless: encoding png: %w", err)
	}
	return nil
}
