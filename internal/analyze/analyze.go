package analyze

import (
	"time"

	"github.com/coursewise/prereqscope/internal/catalog"
	"github.com/coursewise/prereqscope/internal/graph"
)

// Options configures the structural checks. Zero values fall back to the
// defaults below.
type Options struct {
	TopBottlenecks int `json:"top_bottlenecks" yaml:"top_bottlenecks"`
	MinBottleneck  int `json:"min_bottleneck" yaml:"min_bottleneck"`
	LongChainWarn  int `json:"long_chain_warn" yaml:"long_chain_warn"`
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{TopBottlenecks: 5, MinBottleneck: 3, LongChainWarn: 6}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TopBottlenecks == 0 {
		o.TopBottlenecks = def.TopBottlenecks
	}
	if o.MinBottleneck == 0 {
		o.MinBottleneck = def.MinBottleneck
	}
	if o.LongChainWarn == 0 {
		o.LongChainWarn = def.LongChainWarn
	}
	return o
}

// Metrics summarizes one analysis run. TopBottlenecks carries the full
// ranked candidate list, not just the issued top-K.
type Metrics struct {
	CourseCount         int                   `json:"course_count"`
	TotalNodesInGraph   int                   `json:"total_nodes_in_graph"`
	NumCycles           int                   `json:"num_cycles"`
	NumMissingPrereqs   int                   `json:"num_missing_prereqs"`
	NumIsolated         int                   `json:"num_isolated"`
	TopBottlenecks      []BottleneckCandidate `json:"top_bottlenecks"`
	LongestChainLen     int                   `json:"longest_chain_len"`
	LongestChainPath    []string              `json:"longest_chain_path"`
	LongestChainBlocked bool                  `json:"longest_chain_blocked_by_cycles"`
}

// Report is an immutable snapshot of one analysis. It does not reference the
// graph; re-analysis always rebuilds everything from the source records.
type Report struct {
	SourcePath  string    `json:"source_path"`
	GeneratedAt time.Time `json:"generated_at"`
	Metrics     Metrics   `json:"metrics"`
	Issues      []Issue   `json:"issues"`
}

// Analyze builds the graph from records, runs every structural check and
// assembles the report. Structural defects never abort the run; a catalog
// full of problems still yields a complete report.
func Analyze(source string, records []catalog.CourseRecord, opts Options) *Report {
	opts = opts.withDefaults()
	g, realIDs := graph.Build(records)

	issues := []Issue{}
	metrics := Metrics{
		CourseCount:       len(realIDs),
		TotalNodesInGraph: g.NodeCount(),
	}

	cycleIssues := CheckCycles(g)
	issues = append(issues, cycleIssues...)
	metrics.NumCycles = len(cycleIssues)

	missingIssues := CheckMissingPrereqs(g, realIDs)
	issues = append(issues, missingIssues...)
	metrics.NumMissingPrereqs = len(missingIssues)

	isoIssues := CheckIsolated(g, realIDs)
	issues = append(issues, isoIssues...)
	metrics.NumIsolated = len(isoIssues)

	botIssues, ranking := CheckBottlenecks(g, realIDs, opts.TopBottlenecks, opts.MinBottleneck)
	issues = append(issues, botIssues...)
	metrics.TopBottlenecks = ranking

	chainIssues, chain := CheckLongChain(g, opts.LongChainWarn)
	issues = append(issues, chainIssues...)
	metrics.LongestChainLen = chain.Length
	metrics.LongestChainPath = chain.Path
	metrics.LongestChainBlocked = chain.Blocked

	sortIssues(issues)

	return &Report{
		SourcePath:  source,
		GeneratedAt: time.Now().UTC(),
		Metrics:     metrics,
		Issues:      issues,
	}
}

// AnalyzeFile loads a catalog from disk and analyzes it. Only a missing
// source (catalog.ErrCatalogNotFound) or a malformed top level
// (catalog.ErrInvalidCatalogShape) produce an error.
func AnalyzeFile(path string, opts Options) (*Report, error) {
	records, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Analyze(path, records, opts), nil
}
