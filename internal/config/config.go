// Package config provides YAML-based simulation configuration loading and
// preset management for the life CLI.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-life/internal/life"
)

// Sim contains all configuration for one simulation run.
// Zero values mean "use the variant default" where noted.
type Sim struct {
	Grid        GridConfig  `yaml:"grid"`
	Topology    string      `yaml:"topology"` // "", "wrap" or "clamp"
	Seed        int64       `yaml:"seed"`     // 0 = draw from entropy
	Fill        float64     `yaml:"fill"`
	Spark       SparkConfig `yaml:"spark"`
	TickRate    int         `yaml:"tick_rate"`
	Workers     int         `yaml:"workers"`
	Pattern     string      `yaml:"pattern"` // builtin ID or YAML path; empty = random fill
	SampleEvery int         `yaml:"sample_every"`
}

// GridConfig defines grid extents. Zero width or height fits the terminal;
// zero depth keeps the variant's rank.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`
}

// SparkConfig defines spontaneous generation.
type SparkConfig struct {
	Mode        string  `yaml:"mode"` // "", "off", "uniform" or "clock"
	Probability float64 `yaml:"probability"`
	ClockBase   uint64  `yaml:"clock_base"`
}

// Validate checks ranges and enumerations.
func (s Sim) Validate() error {
	if s.Grid.Width < 0 || s.Grid.Height < 0 || s.Grid.Depth < 0 {
		return fmt.Errorf("config: grid extents must not be negative: %+v", s.Grid)
	}
	if s.Topology != "" {
		if _, err := life.ParseTopology(s.Topology); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	// The engine reads a zero fill as its default, so an empty start has to
	// come from a pattern.
	if s.Fill <= 0 || s.Fill > 1 {
		return fmt.Errorf("config: fill %v outside (0, 1]; use a pattern for a sparse start", s.Fill)
	}
	if _, err := life.ParseSparkMode(s.Spark.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if s.Spark.Probability < 0 || s.Spark.Probability > 1 {
		return fmt.Errorf("config: spark probability %v outside [0, 1]", s.Spark.Probability)
	}
	if s.TickRate < 0 {
		return fmt.Errorf("config: tick_rate must not be negative: %d", s.TickRate)
	}
	if s.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative: %d", s.Workers)
	}
	if s.SampleEvery < 0 {
		return fmt.Errorf("config: sample_every must not be negative: %d", s.SampleEvery)
	}
	return nil
}

// TopologyOr returns the configured topology, or def when none is set.
func (s Sim) TopologyOr(def life.Topology) life.Topology {
	if s.Topology == "" {
		return def
	}
	t, err := life.ParseTopology(s.Topology)
	if err != nil {
		return def
	}
	return t
}

// SparkOr returns the configured spark, or def when no mode is set.
// A configured mode takes its probability and clock base from the config.
func (s Sim) SparkOr(def life.Spark) life.Spark {
	if s.Spark.Mode == "" {
		return def
	}
	mode, err := life.ParseSparkMode(s.Spark.Mode)
	if err != nil {
		return def
	}
	return life.Spark{
		Mode:        mode,
		Probability: s.Spark.Probability,
		Base:        s.Spark.ClockBase,
	}
}

// SeedPolicy maps Seed to the engine's policy: zero draws from entropy.
func (s Sim) SeedPolicy() life.SeedPolicy {
	if s.Seed == 0 {
		return life.SeedPolicy{}
	}
	return life.Seeded(s.Seed)
}

// Preset represents a named spark level.
type Preset string

const (
	PresetCalm   Preset = "calm"
	PresetLively Preset = "lively"
	PresetStorm  Preset = "storm"
	PresetFixed  Preset = "fixed"
)

// Presets lists the known presets in display order.
func Presets() []Preset {
	return []Preset{PresetCalm, PresetLively, PresetStorm, PresetFixed}
}

// ApplyPreset modifies the config based on a preset. The empty preset and
// PresetFixed leave it untouched.
func ApplyPreset(cfg *Sim, preset Preset) error {
	switch preset {
	case "", PresetFixed:
	case PresetCalm:
		cfg.Spark.Mode = "off"
	case PresetLively:
		cfg.Spark.Mode = "uniform"
		cfg.Spark.Probability = life.DefaultSparkProbability
	case PresetStorm:
		cfg.Spark.Mode = "uniform"
		cfg.Spark.Probability = 0.05
	default:
		return fmt.Errorf("config: unknown preset %q", preset)
	}
	return nil
}
