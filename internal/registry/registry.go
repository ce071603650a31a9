// Package registry provides a global registry of simulation variants.
// Variants register themselves in init() functions, allowing the CLI and
// the SSH server to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/life"
)

// Variant is a named engine configuration: default extents, edge policy
// and spark. Config values override the defaults when set.
type Variant struct {
	// ID is a unique identifier used for CLI commands and run history.
	ID string
	// Title is a human-readable name for display.
	Title       string
	Description string

	Dims     life.Dims
	Topology life.Topology
	Spark    life.Spark
	// TickRate is the preferred ticks per second; zero uses the config value.
	TickRate int
}

// Options merges cfg over the variant defaults and validates the result.
func (v Variant) Options(cfg config.Sim) (life.Options, error) {
	if err := cfg.Validate(); err != nil {
		return life.Options{}, err
	}

	opts := life.Options{
		Dims:     v.dims(cfg.Grid),
		Topology: cfg.TopologyOr(v.Topology),
		Seed:     cfg.SeedPolicy(),
		Spark:    cfg.SparkOr(v.Spark),
		Fill:     cfg.Fill,
		Workers:  cfg.Workers,
	}
	if err := opts.Validate(); err != nil {
		return life.Options{}, fmt.Errorf("registry: variant %q: %w", v.ID, err)
	}
	return opts, nil
}

// dims applies configured extents. A depth above one turns a planar
// variant volumetric.
func (v Variant) dims(g config.GridConfig) life.Dims {
	w, h, d := v.Dims.W(), v.Dims.H(), v.Dims.D()
	if g.Width > 0 {
		w = g.Width
	}
	if g.Height > 0 {
		h = g.Height
	}
	if g.Depth > 0 {
		d = g.Depth
	}
	if v.Dims.Rank() == 3 || d > 1 {
		return life.Dims3(w, h, d)
	}
	return life.Dims2(w, h)
}

// VariantInfo contains metadata about a registered variant.
type VariantInfo struct {
	ID          string
	Title       string
	Description string
}

var (
	variants = make(map[string]Variant)
	mu       sync.RWMutex
)

// Register adds a variant to the registry.
// Typically called from an init() function.
// Panics if a variant with the same ID is already registered.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := variants[v.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", v.ID))
	}

	variants[v.ID] = v
}

// List returns information about all registered variants, sorted by ID.
func List() []VariantInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]VariantInfo, 0, len(variants))
	for _, v := range variants {
		result = append(result, VariantInfo{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns a variant by its ID.
// Returns an error if the variant ID is not registered.
func Lookup(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := variants[id]
	if !ok {
		return Variant{}, fmt.Errorf("registry: unknown variant %q", id)
	}

	return v, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}
