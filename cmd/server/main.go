package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursewise/prereqscope/internal/api"
	"github.com/coursewise/prereqscope/internal/config"
	"github.com/coursewise/prereqscope/internal/ingest"
	"github.com/coursewise/prereqscope/internal/job"
	"github.com/coursewise/prereqscope/internal/store"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cfgPath := flag.String("config", "configs/service.yaml", "Path to service YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	files, err := store.New(cfg.Storage.CatalogsDir, cfg.Storage.ReportsDir)
	if err != nil {
		slog.Error("failed to open storage", "err", err)
		os.Exit(1)
	}

	// ── Jobs ──────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := job.NewStore()
	jobs.StartCleanup(ctx, 10*time.Minute, time.Duration(cfg.Jobs.TTLSeconds)*time.Second)
	runner := job.NewRunner(ctx, jobs, files, cfg.Jobs.Workers, cfg.Jobs.QueueDepth)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.ServiceConfig) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("hot-reload produced invalid config", "err", err)
			return
		}
		slog.Info("config hot-reloaded",
			"top_bottlenecks", newCfg.Analysis.TopBottlenecks,
			"min_bottleneck", newCfg.Analysis.MinBottleneck,
			"long_chain_warn", newCfg.Analysis.LongChainWarn)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	ing := ingest.New(files, cfg.Ingest)
	handler := api.New(runner, jobs, files, ing, loader)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutMs) * time.Millisecond,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel()
	runner.Shutdown()
	slog.Info("goodbye")
}
