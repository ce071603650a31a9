package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/life"
)

//go:embed defaults/life.yaml
var defaultSimYAML []byte

// DefaultClockBase is the constant part of the clock spark modulus.
const DefaultClockBase = 300

// DefaultSampleEvery is how often, in ticks, the census samples population.
const DefaultSampleEvery = 10

// DefaultSim returns the default simulation configuration.
func DefaultSim() Sim {
	return Sim{
		Fill: life.DefaultFill,
		Spark: SparkConfig{
			Probability: life.DefaultSparkProbability,
			ClockBase:   DefaultClockBase,
		},
		TickRate:    core.DefaultTickRate,
		Workers:     1,
		SampleEvery: DefaultSampleEvery,
	}
}
