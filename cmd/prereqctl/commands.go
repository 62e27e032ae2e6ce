package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursewise/prereqscope/internal/analyze"
	"github.com/coursewise/prereqscope/internal/catalog"
	"github.com/coursewise/prereqscope/internal/graph"
	"github.com/coursewise/prereqscope/internal/traverse"
)

func loadGraph(path string) (*graph.Graph, map[string]struct{}, error) {
	records, err := catalog.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, realIDs := graph.Build(records)
	return g, realIDs, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonOut string
		csvOut  string
		opts    analyze.Options
	)
	cmd := &cobra.Command{
		Use:   "analyze <catalog.json>",
		Short: "Run all structural checks and print a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analyze.AnalyzeFile(args[0], opts)
			if err != nil {
				return err
			}

			m := report.Metrics
			fmt.Printf("Catalog: %s\n", report.SourcePath)
			fmt.Printf("Courses: %d declared, %d nodes in graph\n", m.CourseCount, m.TotalNodesInGraph)
			fmt.Printf("Cycles: %d  Missing prereqs: %d  Isolated: %d\n", m.NumCycles, m.NumMissingPrereqs, m.NumIsolated)
			if m.LongestChainBlocked {
				fmt.Println("Longest chain: blocked by cycles")
			} else {
				fmt.Printf("Longest chain: %d (%s)\n", m.LongestChainLen, strings.Join(m.LongestChainPath, " -> "))
			}
			fmt.Printf("Issues: %d\n", len(report.Issues))
			for _, issue := range report.Issues {
				fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Code, issue.Message)
			}

			if jsonOut != "" {
				f, err := os.Create(jsonOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteJSON(f); err != nil {
					return err
				}
				fmt.Printf("Report written to %s\n", jsonOut)
			}
			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteIssuesCSV(f); err != nil {
					return err
				}
				fmt.Printf("Issues CSV written to %s\n", csvOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the full report as JSON to this file")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write the issue list as CSV to this file")
	cmd.Flags().IntVar(&opts.TopBottlenecks, "top-bottlenecks", 0, "how many bottlenecks to report (default 5)")
	cmd.Flags().IntVar(&opts.MinBottleneck, "min-bottleneck", 0, "minimum out-degree to count as a bottleneck (default 3)")
	cmd.Flags().IntVar(&opts.LongChainWarn, "long-chain-warn", 0, "chain length that triggers a warning (default 6)")
	return cmd
}

func newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <catalog.json> <course-id>",
		Short: "Print the full prerequisite chain of a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			target := args[1]
			chain := traverse.Chain(g, target)
			if len(chain) == 0 {
				return fmt.Errorf("course %q not found in catalog", target)
			}
			fmt.Printf("Prerequisite chain for %q:\n", target)
			for _, id := range chain {
				fmt.Printf("- %s (%s)\n", displayName(g, id), id)
			}
			return nil
		},
	}
}

func newUnlockedCmd() *cobra.Command {
	var completed []string
	cmd := &cobra.Command{
		Use:   "unlocked <catalog.json>",
		Short: "List courses unlocked by a set of completed courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, realIDs, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			done := make(map[string]struct{}, len(completed))
			for _, id := range completed {
				done[id] = struct{}{}
			}
			unlocked := traverse.Unlocked(g, realIDs, done)
			fmt.Printf("Completed: %s\n", strings.Join(completed, ", "))
			fmt.Println("You can take next:")
			for _, id := range unlocked {
				fmt.Printf("- %s (%s)\n", displayName(g, id), id)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&completed, "completed", nil, "comma-separated ids of completed courses")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <catalog.json>",
		Short: "Print structural statistics for a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			roots := 0
			for _, n := range g.Nodes() {
				if g.InDegree(n) == 0 {
					roots++
				}
			}
			fmt.Printf("Nodes: %d\n", g.NodeCount())
			fmt.Printf("Edges: %d\n", g.EdgeCount())
			fmt.Printf("Roots: %d\n", roots)

			chain := analyze.LongestChain(g)
			if chain.Blocked {
				cycles := analyze.SimpleCycles(g)
				fmt.Printf("Cycles: %d\n", len(cycles))
				shown := cycles
				if len(shown) > 5 {
					shown = shown[:5]
				}
				sort.Slice(shown, func(a, b int) bool {
					return strings.Join(shown[a], ",") < strings.Join(shown[b], ",")
				})
				for _, c := range shown {
					fmt.Printf("- %s\n", strings.Join(c, " -> "))
				}
			} else {
				fmt.Printf("Longest chain: %d\n", chain.Length)
			}
			return nil
		},
	}
}

func displayName(g *graph.Graph, id string) string {
	if name := g.Name(id); name != "" {
		return name
	}
	return "Unknown"
}
