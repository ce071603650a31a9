package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-life/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available variants",
	Long:  `Shows every registered variant with its grid, edge handling and spark source.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, v := range variants {
		if len(v.ID) > maxIDLen {
			maxIDLen = len(v.ID)
		}
	}

	fmt.Printf("  %-*s  %-10s  %-8s  %-12s  %s\n", maxIDLen, "ID", "Grid", "Edges", "Spark", "Description")
	fmt.Printf("  %-*s  %-10s  %-8s  %-12s  %s\n", maxIDLen, "--", "----", "-----", "-----", "-----------")

	for _, info := range variants {
		v, err := registry.Lookup(info.ID)
		if err != nil {
			continue
		}
		fmt.Printf("  %-*s  %-10s  %-8s  %-12s  %s\n",
			maxIDLen, v.ID, v.Dims, v.Topology, v.Spark, v.Description)
	}

	fmt.Println()
	fmt.Println("Run 'life run <id>' to watch a variant.")
}
