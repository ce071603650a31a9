package registry

import (
	"fmt"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/pattern"
)

// NewUniverse builds a universe for the variant. When cfg.Pattern is set the
// pattern is resolved (file, patternDir, then builtins) and centered on an
// empty grid; otherwise the grid is filled at random.
func (v Variant) NewUniverse(cfg config.Sim, patternDir string) (*life.Universe, error) {
	opts, err := v.Options(cfg)
	if err != nil {
		return nil, err
	}
	return build(opts, cfg.Pattern, patternDir)
}

// Replay rebuilds a universe with an explicit seed, reproducing an earlier
// run of the same configuration.
func (v Variant) Replay(cfg config.Sim, patternDir string, seed int64) (*life.Universe, error) {
	opts, err := v.Options(cfg)
	if err != nil {
		return nil, err
	}
	opts.Seed = life.Seeded(seed)
	return build(opts, cfg.Pattern, patternDir)
}

func build(opts life.Options, ref, patternDir string) (*life.Universe, error) {
	if ref == "" {
		return life.New(opts)
	}

	p, err := pattern.Resolve(ref, patternDir)
	if err != nil {
		return nil, err
	}
	g, err := life.NewGrid(opts.Dims)
	if err != nil {
		return nil, err
	}
	if err := p.Place(g, p.Centered(opts.Dims), opts.Topology); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return life.NewFromGrid(opts, g)
}
