package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for values the service cannot run with.
// Defaults have already been applied by the loader, so every field is
// expected to be populated.
func Validate(cfg *ServiceConfig) error {
	var errs []string

	if cfg.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if cfg.Storage.CatalogsDir == "" {
		errs = append(errs, "storage.catalogs_dir is required")
	}
	if cfg.Storage.ReportsDir == "" {
		errs = append(errs, "storage.reports_dir is required")
	}
	if cfg.Jobs.Workers < 1 {
		errs = append(errs, fmt.Sprintf("jobs.workers must be >= 1, got %d", cfg.Jobs.Workers))
	}
	if cfg.Jobs.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("jobs.queue_depth must be >= 1, got %d", cfg.Jobs.QueueDepth))
	}
	if cfg.Ingest.MaxUploadMB < 1 {
		errs = append(errs, fmt.Sprintf("ingest.max_upload_mb must be >= 1, got %d", cfg.Ingest.MaxUploadMB))
	}
	if cfg.Ingest.MaxDownloadMB < 1 {
		errs = append(errs, fmt.Sprintf("ingest.max_download_mb must be >= 1, got %d", cfg.Ingest.MaxDownloadMB))
	}
	if cfg.Analysis.TopBottlenecks < 1 {
		errs = append(errs, fmt.Sprintf("analysis.top_bottlenecks must be >= 1, got %d", cfg.Analysis.TopBottlenecks))
	}
	if cfg.Analysis.MinBottleneck < 1 {
		errs = append(errs, fmt.Sprintf("analysis.min_bottleneck must be >= 1, got %d", cfg.Analysis.MinBottleneck))
	}
	if cfg.Analysis.LongChainWarn < 1 {
		errs = append(errs, fmt.Sprintf("analysis.long_chain_warn must be >= 1, got %d", cfg.Analysis.LongChainWarn))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
