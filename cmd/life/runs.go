package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-life/internal/platform/tui"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/storage"
)

var (
	flagRunsLimit   int
	flagClear       bool
	flagInteractive bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [variant]",
	Short: "Show recorded run history",
	Long: `Display recorded runs. With a variant, shows its longest runs;
without one, shows per-variant totals and the most recent runs.

Examples:
  life runs
  life runs torus
  life runs torus --limit 25
  life runs -i
  life runs console --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded runs (of the variant, or all)")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in the terminal UI")
}

func runRuns(_ *cobra.Command, args []string) {
	variantID := ""
	if len(args) == 1 {
		variantID = args[0]
		if !registry.Exists(variantID) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variantID)
			fmt.Fprintln(os.Stderr, "Run 'life list' to see available variants.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening run database: %v", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		err = clearRuns(store, variantID)
	case flagInteractive:
		rt := terminalConfig()
		_, err = tui.RunHistory(store, rt.ScreenW, rt.ScreenH)
	case variantID != "":
		err = printVariantRuns(store, variantID)
	default:
		err = printOverview(store)
	}
	if err != nil {
		store.Close()
		exitf("%v", err)
	}
}

func clearRuns(store *storage.Store, variantID string) error {
	if err := store.ClearRuns(variantID); err != nil {
		return err
	}
	if variantID == "" {
		fmt.Println("Cleared all recorded runs.")
	} else {
		fmt.Printf("Cleared recorded runs of %s.\n", variantID)
	}
	return nil
}

func printVariantRuns(store *storage.Store, variantID string) error {
	variant, err := registry.Lookup(variantID)
	if err != nil {
		return err
	}

	runs, err := store.TopRuns(variantID, flagRunsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Longest Runs - %s\n", variant.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'life run %s' or 'life step %s --record' to record one.\n", variantID, variantID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-20s  %s\n", "Rank", "Gens", "Peak", "Final", "Seed", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-20s  %s\n", "----", "----", "----", "-----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-20d  %s\n",
			i+1, r.Generations, r.PeakPopulation, r.FinalPopulation, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.VariantStats(variantID)
	if err == nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("Runs: %d  Longest: %d  Avg: %.1f  Peak population: %d\n",
			stats.Runs, stats.LongestRun, stats.AvgGenerations, stats.PeakPopulation)
	}
	return nil
}

func printOverview(store *storage.Store) error {
	all, err := store.AllVariantStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("Run totals:")
	fmt.Println()
	fmt.Printf("  %-10s  %-5s  %-8s  %-8s  %-6s  %s\n", "Variant", "Runs", "Longest", "Avg", "Peak", "Last run")
	fmt.Printf("  %-10s  %-5s  %-8s  %-8s  %-6s  %s\n", "-------", "----", "-------", "---", "----", "--------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-10s  %-5d  %-8d  %-8.1f  %-6d  %s\n",
			id, s.Runs, s.LongestRun, s.AvgGenerations, s.PeakPopulation, s.LastRun.Format("2006-01-02 15:04"))
	}

	recent, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Println()
	for _, r := range recent {
		fmt.Printf("  #%-5d %-10s %-10s %-8s gens %-8d peak %-6d %s\n",
			r.ID, r.Variant, r.Dims, r.Spark, r.Generations, r.PeakPopulation, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
