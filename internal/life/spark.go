package life

import (
	"fmt"
	"strings"
	"time"
)

// SparkMode selects how cells are spontaneously revived each tick.
type SparkMode uint8

const (
	// SparkOff applies the neighbor rule alone.
	SparkOff SparkMode = iota
	// SparkUniform forces each cell Alive with a fixed probability per tick.
	SparkUniform
	// SparkClock revives a Dead cell when the tick's clock reading is a
	// multiple of a modulus derived from the cell position and neighbor count.
	SparkClock
)

// String returns the config name of the mode.
func (m SparkMode) String() string {
	switch m {
	case SparkOff:
		return "off"
	case SparkUniform:
		return "uniform"
	case SparkClock:
		return "clock"
	default:
		return "unknown"
	}
}

// ParseSparkMode parses "off", "uniform" or "clock". The empty string is "off".
func ParseSparkMode(s string) (SparkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return SparkOff, nil
	case "uniform":
		return SparkUniform, nil
	case "clock":
		return SparkClock, nil
	}
	return 0, fmt.Errorf("life: unknown spark mode %q", s)
}

// DefaultSparkProbability is the one-in-a-hundred revival rate.
const DefaultSparkProbability = 0.01

// clockSalt is mixed into every clock modulus.
const clockSalt = 9873

// Spark configures stochastic spontaneous generation.
type Spark struct {
	Mode SparkMode
	// Probability is the per-cell, per-tick revival chance for SparkUniform.
	// 1 forces every cell Alive; 0 disables the draw.
	Probability float64
	// Clock is read once per tick by SparkClock. Nil uses wall-clock
	// milliseconds.
	Clock func() uint64
	// Base is the constant part of the SparkClock modulus.
	Base uint64
}

// UniformSpark returns a uniform spark with probability p.
func UniformSpark(p float64) Spark {
	return Spark{Mode: SparkUniform, Probability: p}
}

// String returns "off", "uniform:<p>" or "clock:<base>".
func (s Spark) String() string {
	switch s.Mode {
	case SparkUniform:
		return fmt.Sprintf("uniform:%g", s.Probability)
	case SparkClock:
		return fmt.Sprintf("clock:%d", s.Base)
	default:
		return s.Mode.String()
	}
}

// Validate checks the probability range.
func (s Spark) Validate() error {
	if s.Probability < 0 || s.Probability > 1 {
		return fmt.Errorf("%w: probability %v outside [0, 1]", ErrInvalidSpark, s.Probability)
	}
	if s.Mode > SparkClock {
		return fmt.Errorf("%w: mode %d", ErrInvalidSpark, s.Mode)
	}
	return nil
}

func wallClockMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// clockRevives reports whether a Dead cell at c with n live neighbors is
// revived for the given clock reading.
func (s Spark) clockRevives(clock uint64, c Coord, n int) bool {
	mod := s.Base + uint64((c.X+1)*(c.Y+1)*(c.Z+1)) + clockSalt + uint64(n)
	return clock%mod == 0
}
