// prereqctl analyzes course-catalog JSON files from the command line, using
// the same engine as the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "prereqctl",
		Short:         "Analyze course catalogs and their prerequisite structure",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd(), newChainCmd(), newUnlockedCmd(), newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
