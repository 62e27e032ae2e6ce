package config

import "github.com/coursewise/prereqscope/internal/analyze"

// ServiceConfig is the top-level YAML structure. Unrecognized keys are
// ignored.
type ServiceConfig struct {
	Server   ServerConf      `yaml:"server"`
	Storage  StorageConf     `yaml:"storage"`
	Jobs     JobsConf        `yaml:"jobs"`
	Ingest   IngestConf      `yaml:"ingest"`
	Analysis analyze.Options `yaml:"analysis"`
}

// ServerConf holds HTTP server settings.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	IdleTimeoutMs  int    `yaml:"idle_timeout_ms"`
}

// StorageConf holds the on-disk layout for catalogs and reports.
type StorageConf struct {
	CatalogsDir string `yaml:"catalogs_dir"`
	ReportsDir  string `yaml:"reports_dir"`
}

// JobsConf holds tunables for the analysis job runner.
type JobsConf struct {
	Workers    int `yaml:"workers"`
	QueueDepth int `yaml:"queue_depth"`
	TTLSeconds int `yaml:"ttl_seconds"` // terminal jobs older than this are swept
}

// IngestConf holds catalog ingestion limits.
type IngestConf struct {
	MaxUploadMB       int  `yaml:"max_upload_mb"`
	MaxDownloadMB     int  `yaml:"max_download_mb"`
	FetchTimeoutMs    int  `yaml:"fetch_timeout_ms"`
	AllowPrivateHosts bool `yaml:"allow_private_hosts"` // disables the SSRF guard; test/dev only
}
