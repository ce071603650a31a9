package pattern

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

var (
	builtinOnce sync.Once
	builtins    map[string]Pattern
	builtinErr  error
)

func loadBuiltins() {
	builtins = make(map[string]Pattern)
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		builtinErr = fmt.Errorf("pattern: reading builtins: %w", err)
		return
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			builtinErr = fmt.Errorf("pattern: reading %s: %w", e.Name(), err)
			return
		}
		p, err := Parse(data)
		if err != nil {
			builtinErr = fmt.Errorf("pattern: builtin %s: %w", e.Name(), err)
			return
		}
		builtins[p.ID] = p
	}
}

// Builtins returns every builtin pattern sorted by ID.
func Builtins() ([]Pattern, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return nil, builtinErr
	}
	result := make([]Pattern, 0, len(builtins))
	for _, p := range builtins {
		result = append(result, p)
	}
	SortByID(result)
	return result, nil
}

// Builtin returns the builtin pattern with the given ID.
func Builtin(id string) (Pattern, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return Pattern{}, builtinErr
	}
	p, ok := builtins[id]
	if !ok {
		return Pattern{}, fmt.Errorf("pattern: unknown builtin %q", id)
	}
	return p, nil
}
