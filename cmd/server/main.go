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

	"github.com/gyaneshwarpardhi/scandal/internal/analysis"
	"github.com/gyaneshwarpardhi/scandal/internal/api"
	"github.com/gyaneshwarpardhi/scandal/internal/config"
	"github.com/gyaneshwarpardhi/scandal/internal/logging"
	"github.com/gyaneshwarpardhi/scandal/internal/report"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	cfgPath := flag.String("config", "configs/scandal.yaml", "Path to YAML config")
	flag.Parse()

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
	logger := logging.New(cfg.Log.Format, cfg.Log.Level, os.Stdout)
	slog.SetDefault(logger)
	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Initial analysis ─────────────────────────────────────────────────────
	analyzer := analysis.New(logger)
	reports := report.DefaultRegistry()
	snap, err := analyzer.Run(ctx, cfg)
	if err != nil {
		slog.Error("initial analysis failed", "err", err)
		os.Exit(1)
	}
	saveReport(reports, cfg, snap)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	if cfg.Server.ReloadOnChange {
		loader.OnChange(func(newCfg *config.Config) {
			if err := config.Validate(newCfg); err != nil {
				slog.Warn("re-analysis skipped: config invalid", "err", err)
				return
			}
			s, err := analyzer.Run(ctx, newCfg)
			if err != nil {
				slog.Warn("re-analysis failed, serving previous snapshot", "err", err)
				return
			}
			saveReport(reports, newCfg, s)
		})
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(analyzer, loader, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
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
	cancel() // abort any in-flight corpus walk
	slog.Info("goodbye")
}

// saveReport persists the connector list when report.path names a file. A
// failure is logged; the snapshot keeps serving.
func saveReport(reports *report.Registry, cfg *config.Config, s *analysis.Snapshot) {
	if cfg.Report.Path == "" || cfg.Report.Path == "-" {
		return
	}
	rep := report.New(s.RunID, s.Connectors())
	if err := reports.WriteFile(cfg.Report.Path, cfg.Report.Format, rep, os.Stdout); err != nil {
		slog.Error("connector report not written", "err", err)
		return
	}
	slog.Info("connector report written", "path", cfg.Report.Path, "count", rep.Count)
}
