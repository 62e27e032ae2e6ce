package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prereqscope_catalogs_ingested_total",
		Help: "Total number of catalogs stored, labelled by ingest source.",
	}, []string{"source"})

	AnalysesRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prereqscope_analyses_total",
		Help: "Total number of completed catalog analyses.",
	})

	AnalysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prereqscope_analyses_failed_total",
		Help: "Total number of analyses that could not produce a report.",
	})

	JobsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prereqscope_jobs_dropped_total",
		Help: "Total number of analysis jobs rejected due to a full queue.",
	})

	IssuesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prereqscope_issues_found_total",
		Help: "Total number of issues reported, labelled by issue code.",
	}, []string{"code"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prereqscope_analysis_duration_ms",
		Help:    "End-to-end catalog analysis latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	JobQueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "prereqscope_job_queue_utilization_ratio",
		Help: "Current analysis job queue utilization (0–1).",
	})
)
