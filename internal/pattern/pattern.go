// Package pattern provides seeding templates for the automaton: named sets
// of live cells stored as YAML, a library of builtin patterns and a loader
// for user pattern directories.
package pattern

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-life/internal/life"
)

// yamlPattern is the on-disk YAML structure.
type yamlPattern struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     yamlSize          `yaml:"size"`
	Cells    [][]int           `yaml:"cells"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

type yamlSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
	D int `yaml:"d,omitempty"` // 0 for planar patterns
}

// Pattern is a parsed seeding template.
type Pattern struct {
	ID       string
	Name     string
	Dims     life.Dims
	Cells    []life.Coord
	Metadata map[string]string
	FilePath string // empty for builtins
}

// Parse parses and validates a YAML pattern.
func Parse(data []byte) (Pattern, error) {
	var yp yamlPattern
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Pattern{}, fmt.Errorf("pattern: yaml unmarshal: %w", err)
	}
	if yp.ID == "" {
		return Pattern{}, fmt.Errorf("pattern: missing id")
	}

	dims := life.Dims2(yp.Size.W, yp.Size.H)
	if yp.Size.D > 0 {
		dims = life.Dims3(yp.Size.W, yp.Size.H, yp.Size.D)
	}
	if err := dims.Validate(); err != nil {
		return Pattern{}, fmt.Errorf("pattern %s: %w", yp.ID, err)
	}

	p := Pattern{
		ID:       yp.ID,
		Name:     yp.Name,
		Dims:     dims,
		Cells:    make([]life.Coord, 0, len(yp.Cells)),
		Metadata: yp.Metadata,
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	seen := make(map[life.Coord]bool, len(yp.Cells))
	for i, raw := range yp.Cells {
		c, err := toCoord(raw, dims.Rank())
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern %s: cell %d: %w", yp.ID, i, err)
		}
		if !dims.Contains(c) {
			return Pattern{}, fmt.Errorf("pattern %s: cell %v outside %v", yp.ID, c, dims)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		p.Cells = append(p.Cells, c)
	}
	return p, nil
}

func toCoord(raw []int, rank int) (life.Coord, error) {
	switch {
	case len(raw) == 2 && rank == 2:
		return life.C(raw[0], raw[1]), nil
	case len(raw) == 3 && rank == 3:
		return life.C3(raw[0], raw[1], raw[2]), nil
	case len(raw) == 2 && rank == 3:
		return life.C3(raw[0], raw[1], 0), nil
	}
	return life.Coord{}, fmt.Errorf("expected %d components, got %d", rank, len(raw))
}

// Grid returns a grid exactly the size of the pattern.
func (p Pattern) Grid() *life.Grid {
	g := life.MustGrid(p.Dims)
	for _, c := range p.Cells {
		g.Set(c, life.AliveCell(0))
	}
	return g
}

// Centered returns the offset that centers the pattern on a grid of dims.
// Axes the pattern does not use are centered too, so a planar pattern lands
// in the middle layer of a volumetric grid.
func (p Pattern) Centered(dims life.Dims) life.Coord {
	return life.C3(
		(dims.W()-p.Dims.W())/2,
		(dims.H()-p.Dims.H())/2,
		(dims.D()-p.Dims.D())/2,
	)
}

// Place sets the pattern's cells Alive on g, offset by at. Under Wrap the
// target coordinates wrap around every axis; under Clamp any cell landing
// outside g is an error and g is left untouched.
func (p Pattern) Place(g *life.Grid, at life.Coord, topo life.Topology) error {
	dims := g.Dims()
	targets := make([]life.Coord, 0, len(p.Cells))
	for _, c := range p.Cells {
		t := c.Add(at)
		if topo == life.Wrap {
			t = life.C3(wrap(t.X, dims.W()), wrap(t.Y, dims.H()), wrap(t.Z, dims.D()))
		} else if !dims.Contains(t) {
			return fmt.Errorf("pattern %s: cell %v lands at %v outside %v", p.ID, c, t, dims)
		}
		targets = append(targets, t)
	}
	for _, t := range targets {
		g.Set(t, life.AliveCell(0))
	}
	return nil
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

// SortByID sorts patterns in place by ID.
func SortByID(patterns []Pattern) {
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].ID < patterns[j].ID
	})
}
