package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-life/internal/pattern"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List seeding patterns",
	Long: `Shows the builtin patterns and any YAML patterns found under
~/.life/patterns. A user pattern with the same ID as a builtin takes
precedence when passed to --pattern.

Pattern file format:
  id: glider
  name: Glider
  size: {w: 3, h: 3}        # add d: N for volumetric patterns
  cells: [[1, 0], [2, 1], [0, 2], [1, 2], [2, 2]]

Examples:
  life patterns
  life run console --pattern glider`,
	Run: runPatterns,
}

func runPatterns(_ *cobra.Command, _ []string) {
	builtins, err := pattern.Builtins()
	if err != nil {
		exitf("loading builtin patterns: %v", err)
	}
	printPatterns("Builtin patterns:", builtins)

	dir := patternDir()
	if _, err := os.Stat(dir); err != nil {
		fmt.Printf("No user patterns (%s does not exist).\n", dir)
		return
	}
	user, err := pattern.NewLoader(dir).LoadAll()
	if err != nil {
		exitf("%v", err)
	}
	printPatterns(fmt.Sprintf("User patterns (%s):", dir), user)
}

func printPatterns(header string, patterns []pattern.Pattern) {
	fmt.Println(header)
	fmt.Println()
	if len(patterns) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		return
	}

	maxIDLen := 2
	for _, p := range patterns {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Printf("  %-*s  %-8s  %-5s  %s\n", maxIDLen, "ID", "Size", "Cells", "Name")
	fmt.Printf("  %-*s  %-8s  %-5s  %s\n", maxIDLen, "--", "----", "-----", "----")
	for _, p := range patterns {
		fmt.Printf("  %-*s  %-8s  %-5d  %s\n", maxIDLen, p.ID, p.Dims, len(p.Cells), p.Name)
	}
	fmt.Println()
}
