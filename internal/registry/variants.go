package registry

import (
	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/life"
)

func init() {
	Register(Variant{
		ID:          "console",
		Title:       "Console",
		Description: "Bounded plane, plain B3/S23",
		Dims:        life.Dims2(40, 20),
		Topology:    life.Clamp,
	})
	Register(Variant{
		ID:          "torus",
		Title:       "Torus",
		Description: "Wrapped plane with a 1-in-100 spark per cell",
		Dims:        life.Dims2(64, 32),
		Topology:    life.Wrap,
		Spark:       life.UniformSpark(life.DefaultSparkProbability),
	})
	Register(Variant{
		ID:          "pixels",
		Title:       "Pixels",
		Description: "Bounded 300x300 canvas revived by the clock",
		Dims:        life.Dims2(300, 300),
		Topology:    life.Clamp,
		Spark:       life.Spark{Mode: life.SparkClock, Base: config.DefaultClockBase},
		TickRate:    20,
	})
	Register(Variant{
		ID:          "cube",
		Title:       "Cube",
		Description: "Bounded volume with 26 neighbors per cell",
		Dims:        life.Dims3(16, 16, 16),
		Topology:    life.Clamp,
	})
}
