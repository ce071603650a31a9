// life runs cellular automata in the terminal.
//
// Usage:
//
//	life list                 - List available variants
//	life run [variant]        - Watch a variant (menu when omitted)
//	life step <variant> -n N  - Advance a variant headlessly and print the result
//	life patterns             - List builtin and user patterns
//	life runs [variant]       - Show recorded run history
//	life serve                - Start SSH server for remote viewing
//
// Global flags:
//
//	--tps <rate>      - Set tick rate (default from config)
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set database path (default: ~/.life/life.db)
//	--config <path>   - Use a custom simulation config
//	--preset <name>   - Spark preset: calm, lively, storm, fixed
//	--pattern <ref>   - Seed from a pattern instead of random fill
//	--log-level <lvl> - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/storage"
)

var (
	// Global flags
	flagTPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
	flagPattern  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "life",
	Short: "Life - cellular automata in your terminal",
	Long: `Life runs Conway-style cellular automata in the terminal: planar and
volumetric grids, wrapping or clamped edges, and optional spark sources
that keep a universe from settling.

Available commands:
  list      - Show all available variants
  run       - Watch a variant in the terminal
  step      - Advance a variant headlessly
  patterns  - Show seeding patterns
  runs      - View recorded run history
  serve     - Start SSH server for remote viewing

Examples:
  life list
  life run torus
  life run console --preset storm
  life step console -n 200 --seed 42
  life serve --ssh :2222
  life runs torus`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagTPS, "tps", 0, "Tick rate in generations per second (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config, or random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom simulation config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Spark preset: calm, lively, storm, fixed")
	rootCmd.PersistentFlags().StringVar(&flagPattern, "pattern", "", "Seed pattern: builtin ID, ID in ~/.life/patterns, or YAML path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger shared by every command.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "life",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadSim loads the simulation config and applies the global flags over it.
func loadSim() (config.Sim, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyPreset(&cfg, config.Preset(strings.ToLower(flagPreset))); err != nil {
		return cfg, err
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagTPS > 0 {
		cfg.TickRate = flagTPS
	}
	if flagPattern != "" {
		cfg.Pattern = flagPattern
	}
	return cfg, cfg.Validate()
}

// patternDir is the user pattern directory searched before the builtins.
func patternDir() string {
	return filepath.Join(config.DataDir(), "patterns")
}

// exitf prints an error to stderr and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
