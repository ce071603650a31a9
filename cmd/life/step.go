package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/platform/headless"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/sink"
	"github.com/vovakirdan/tui-life/internal/storage"
)

var (
	flagGenerations int
	flagRecord      bool
	flagPNG         string
	flagLayer       int
	flagQuiet       bool
	flagKeepGoing   bool
)

var stepCmd = &cobra.Command{
	Use:   "step <variant>",
	Short: "Advance a variant headlessly",
	Long: `Advance a variant for a number of generations without a terminal UI,
then print the final grid ('#' alive, '.' dead) and run statistics.

A universe without a spark source that dies out stops early unless
--keep-going is set.

Examples:
  life step console -n 100
  life step torus -n 500 --seed 42 --record
  life step pixels -n 300 --png out.png -q
  life step cube -n 20 --layer 8 --png layer8.png
  life step console --pattern glider -n 40`,
	Args: cobra.ExactArgs(1),
	Run:  runStep,
}

func init() {
	stepCmd.Flags().IntVarP(&flagGenerations, "generations", "n", 100, "Number of generations to advance")
	stepCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the history database")
	stepCmd.Flags().StringVar(&flagPNG, "png", "", "Write the final layer as a PNG image to this path")
	stepCmd.Flags().IntVar(&flagLayer, "layer", 0, "Z layer exported by --png")
	stepCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Print statistics only, not the grid")
	stepCmd.Flags().BoolVar(&flagKeepGoing, "keep-going", false, "Keep ticking after extinction")
}

func runStep(_ *cobra.Command, args []string) {
	logger := newLogger()

	variant, err := registry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'life list' to see available variants.")
		os.Exit(1)
	}
	if flagGenerations < 0 {
		exitf("generations must be >= 0, got %d", flagGenerations)
	}

	sim, err := loadSim()
	if err != nil {
		exitf("%v", err)
	}

	u, err := variant.NewUniverse(sim, patternDir())
	if err != nil {
		exitf("building universe: %v", err)
	}
	if flagLayer < 0 || flagLayer >= u.Dims().D() {
		exitf("layer %d out of range [0, %d)", flagLayer, u.Dims().D())
	}

	var px *sink.Pixels
	if flagPNG != "" {
		px = sink.NewPixels(u.Dims(), nil)
		px.SetLayer(flagLayer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("stepping", "variant", variant.ID, "seed", u.Seed(), "generations", flagGenerations)
	res := headless.Run(ctx, u, headless.Options{
		Generations:   flagGenerations,
		SampleEvery:   sim.SampleEvery,
		StopOnExtinct: !flagKeepGoing,
		Pixels:        px,
	})
	if res.Canceled {
		logger.Warn("interrupted", "generation", res.Generations)
	}

	if !flagQuiet {
		fmt.Println(u.Current().String())
		fmt.Println()
	}
	printStepStats(variant, u, res)

	if px != nil {
		if err := writePNG(flagPNG, px); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Wrote %s (%dx%d, layer %d)\n", flagPNG, px.Width(), px.Height(), flagLayer)
	}

	if flagRecord {
		id, err := recordRun(variant, u, res)
		if err != nil {
			exitf("recording run: %v", err)
		}
		fmt.Printf("Recorded run #%d\n", id)
	}
}

func printStepStats(variant registry.Variant, u *life.Universe, res headless.Result) {
	opts := u.Options()
	fmt.Printf("%s  %s  %s  spark %s  seed %d\n",
		variant.Title, opts.Dims, opts.Topology, opts.Spark, u.Seed())
	fmt.Printf("  Generations:  %d\n", res.Generations)
	fmt.Printf("  Population:   %d (peak %d)\n", u.Current().Population(), res.Census.Peak())

	var born, died, sparked int
	for _, s := range res.Census.Samples() {
		born += s.Born
		died += s.Died
		sparked += s.Sparked
	}
	fmt.Printf("  Born/Died:    %d / %d", born, died)
	if sparked > 0 {
		fmt.Printf("  (%d sparked)", sparked)
	}
	fmt.Println()
	if res.Lifespans.Deaths > 0 {
		fmt.Printf("  Lifespan:     mean %.2f, longest %d\n", res.Lifespans.Mean(), res.Lifespans.Longest)
	}
	if res.Extinct {
		fmt.Println("  Extinct")
	}
}

func writePNG(path string, px *sink.Pixels) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := headless.WritePNG(f, px); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func recordRun(variant registry.Variant, u *life.Universe, res headless.Result) (int64, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	opts := u.Options()
	id, err := store.SaveRun(storage.Run{
		Variant:         variant.ID,
		Seed:            u.Seed(),
		Dims:            opts.Dims.String(),
		Topology:        opts.Topology.String(),
		Spark:           opts.Spark.String(),
		Generations:     res.Generations,
		FinalPopulation: u.Current().Population(),
		PeakPopulation:  res.Census.Peak(),
	})
	if err != nil {
		return 0, err
	}
	return id, store.SaveSamples(id, res.Census.Samples())
}
