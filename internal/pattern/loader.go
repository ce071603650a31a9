package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader loads patterns from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new pattern loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans Root and loads every YAML pattern.
// Invalid files are skipped. Results are sorted by ID.
func (l *Loader) LoadAll() ([]Pattern, error) {
	var patterns []Pattern

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		p, err := l.LoadFile(path)
		if err != nil {
			return nil
		}
		patterns = append(patterns, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pattern: walking directory %s: %w", l.Root, err)
	}

	SortByID(patterns)
	return patterns, nil
}

// LoadFile loads a single pattern file.
func (l *Loader) LoadFile(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern: reading file %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern: parsing file %s: %w", path, err)
	}
	p.FilePath = path
	return p, nil
}

// LoadByID loads the pattern with the given ID from Root.
func (l *Loader) LoadByID(id string) (Pattern, error) {
	patterns, err := l.LoadAll()
	if err != nil {
		return Pattern{}, err
	}
	for _, p := range patterns {
		if p.ID == id {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("pattern: not found: %s", id)
}

// Resolve finds a pattern by ID, looking in dir first (when non-empty and
// present) and then in the builtins. A path to a YAML file is loaded
// directly.
func Resolve(ref, dir string) (Pattern, error) {
	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		return NewLoader(filepath.Dir(ref)).LoadFile(ref)
	}
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			if p, err := NewLoader(dir).LoadByID(ref); err == nil {
				return p, nil
			}
		}
	}
	return Builtin(ref)
}
