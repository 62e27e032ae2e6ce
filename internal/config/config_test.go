package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderDefaults(t *testing.T) {
	loader, err := NewLoader(writeConfig(t, ""))
	require.NoError(t, err)

	cfg := loader.Config()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10000, cfg.Server.ReadTimeoutMs)
	assert.Equal(t, "data/catalogs", cfg.Storage.CatalogsDir)
	assert.Equal(t, "data/reports", cfg.Storage.ReportsDir)
	assert.Equal(t, 4, cfg.Jobs.Workers)
	assert.Equal(t, 64, cfg.Jobs.QueueDepth)
	assert.Equal(t, 7200, cfg.Jobs.TTLSeconds)
	assert.Equal(t, 10, cfg.Ingest.MaxUploadMB)
	assert.False(t, cfg.Ingest.AllowPrivateHosts)
	assert.Equal(t, 5, cfg.Analysis.TopBottlenecks)
	assert.Equal(t, 3, cfg.Analysis.MinBottleneck)
	assert.Equal(t, 6, cfg.Analysis.LongChainWarn)
}

func TestLoaderOverrides(t *testing.T) {
	loader, err := NewLoader(writeConfig(t, `
server:
  addr: ":9090"
jobs:
  workers: 2
analysis:
  long_chain_warn: 10
`))
	require.NoError(t, err)

	cfg := loader.Config()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Jobs.Workers)
	assert.Equal(t, 10, cfg.Analysis.LongChainWarn)
	// Unset fields still pick up defaults.
	assert.Equal(t, 64, cfg.Jobs.QueueDepth)
	assert.Equal(t, 5, cfg.Analysis.TopBottlenecks)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoaderBadYAML(t *testing.T) {
	_, err := NewLoader(writeConfig(t, "server: [not a mapping"))
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	loader, err := NewLoader(path)
	require.NoError(t, err)

	var seen string
	loader.OnChange(func(cfg *ServiceConfig) { seen = cfg.Server.Addr })

	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o644))
	cfg, err := loader.Reload()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, ":7070", loader.Config().Server.Addr)
	assert.Equal(t, ":7070", seen)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Jobs.Workers = -1
	cfg.Analysis.MinBottleneck = -5
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs.workers must be >= 1")
	assert.Contains(t, err.Error(), "analysis.min_bottleneck must be >= 1")
}
