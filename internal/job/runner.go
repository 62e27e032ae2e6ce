package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursewise/prereqscope/internal/analyze"
	"github.com/coursewise/prereqscope/internal/metrics"
	"github.com/coursewise/prereqscope/internal/store"
)

// Runner executes catalog analyses on a bounded worker pool. Cycle
// enumeration can blow up on dense graphs, so analyses never run on the
// request path; callers submit and poll the job store.
type Runner struct {
	pool  *pool[task]
	jobs  *Store
	files *store.Store
}

type task struct {
	jobID     string
	catalogID string
	opts      analyze.Options
}

// NewRunner starts workers goroutines consuming a queue of depth queueDepth.
func NewRunner(ctx context.Context, jobs *Store, files *store.Store, workers, queueDepth int) *Runner {
	r := &Runner{jobs: jobs, files: files}
	r.pool = newPool(ctx, workers, queueDepth, func(ctx context.Context, t task) {
		r.run(t)
	})
	return r
}

// Submit queues an analysis for a stored catalog. Returns false when the
// queue is full; the caller decides how to surface the backpressure.
func (r *Runner) Submit(jobID, catalogID string, opts analyze.Options) bool {
	return r.pool.Submit(task{jobID: jobID, catalogID: catalogID, opts: opts})
}

// QueueUtilization returns queue used / capacity (0–1).
func (r *Runner) QueueUtilization() float64 {
	if r.pool.QueueCap() == 0 {
		return 0
	}
	return float64(r.pool.QueueLen()) / float64(r.pool.QueueCap())
}

// Shutdown drains the pool gracefully.
func (r *Runner) Shutdown() {
	r.pool.Drain()
}

func (r *Runner) run(t task) {
	start := time.Now()
	r.jobs.SetRunning(t.jobID)

	report, err := analyze.AnalyzeFile(r.files.CatalogPath(t.catalogID), t.opts)
	if err != nil {
		metrics.AnalysesFailed.Inc()
		r.jobs.SetFailed(t.jobID, err.Error())
		slog.Error("analysis failed", "job_id", t.jobID, "catalog_id", t.catalogID, "err", err)
		return
	}

	reportID, err := r.files.SaveReport(report)
	if err != nil {
		metrics.AnalysesFailed.Inc()
		r.jobs.SetFailed(t.jobID, err.Error())
		slog.Error("report save failed", "job_id", t.jobID, "err", err)
		return
	}

	r.jobs.SetDone(t.jobID, reportID)
	metrics.AnalysesRun.Inc()
	metrics.AnalysisDuration.Observe(float64(time.Since(start).Milliseconds()))
	for _, issue := range report.Issues {
		metrics.IssuesFound.WithLabelValues(string(issue.Code)).Inc()
	}
	slog.Info("analysis complete",
		"job_id", t.jobID,
		"catalog_id", t.catalogID,
		"report_id", reportID,
		"issues", len(report.Issues),
		"duration_ms", time.Since(start).Milliseconds())
}
