package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the search path.
const FileName = "life.yaml"

// Load loads the simulation configuration.
// Search order: customPath -> ~/.life/configs/life.yaml -> ./configs/life.yaml -> embedded default
func Load(customPath string) (Sim, error) {
	cfg := DefaultSim()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if loaded, ok := readSim(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := readSim(filepath.Join("configs", FileName)); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	var embedded Sim
	if err := yaml.Unmarshal(defaultSimYAML, &embedded); err != nil {
		return DefaultSim(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// readSim reads a config file over the defaults. ok is false when the file
// is missing or malformed.
func readSim(path string) (Sim, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sim{}, false
	}
	cfg := DefaultSim()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Sim{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".life", "configs", filename)
}

// DataDir returns ~/.life, or ".life" if home is unavailable.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".life"
	}
	return filepath.Join(home, ".life")
}
