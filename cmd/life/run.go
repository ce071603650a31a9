package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/platform/tui"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run [variant]",
	Short: "Watch a variant in the terminal",
	Long: `Run a variant in the terminal. Without a variant an interactive picker
is shown; after a simulation ends you return to it.

Controls:
  Space/P    - Pause
  N          - Step one generation while paused
  R          - Replay the current seed
  S          - Start over with a new seed
  +/-        - Faster / slower
  [/]        - Previous / next layer (volumetric variants)
  Ctrl+S     - Save a text screenshot to ~/.life/screenshots
  ?          - Show all keys
  Q/Ctrl+C   - Quit

Finished runs are recorded in the history database.

Examples:
  life run
  life run torus
  life run console --preset lively --tps 30
  life run cube --seed 7`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func runRun(_ *cobra.Command, args []string) {
	logger := newLogger()

	sim, err := loadSim()
	if err != nil {
		exitf("%v", err)
	}

	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'life list' to see available variants.")
		os.Exit(1)
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		// Continue without storage - simulation still works
		store = nil
	}

	rt := terminalConfig()
	if len(args) == 1 {
		err = watch(args[0], sim, store, logger, rt, false)
	} else {
		err = menuLoop(sim, store, logger, rt)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if err != nil {
		exitf("%v", err)
	}
}

// terminalConfig reads the terminal size, falling back to 80x24.
func terminalConfig() core.RuntimeConfig {
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagTPS, Seed: flagSeed}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	return rt
}

func watch(id string, sim config.Sim, store *storage.Store, logger *log.Logger, rt core.RuntimeConfig, embedded bool) error {
	variant, err := registry.Lookup(id)
	if err != nil {
		return err
	}
	logger.Debug("starting simulation", "variant", id, "tps", rt.TickRate)
	return tui.Run(tui.Options{
		Variant:    variant,
		Config:     sim,
		Store:      store,
		Logger:     logger,
		PatternDir: patternDir(),
		Runtime:    rt,
		Embedded:   embedded,
	})
}

// menuLoop alternates between the variant picker, simulations and the run
// history until the user quits.
func menuLoop(sim config.Sim, store *storage.Store, logger *log.Logger, rt core.RuntimeConfig) error {
	for {
		result, err := tui.RunMenu(rt)
		if err != nil {
			return err
		}
		rt = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsHistory {
			goBack, err := tui.RunHistory(store, rt.ScreenW, rt.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		if err := watch(result.VariantID, sim, store, logger, rt, true); err != nil {
			logger.Error("simulation failed", "variant", result.VariantID, "error", err)
		}
	}
}
