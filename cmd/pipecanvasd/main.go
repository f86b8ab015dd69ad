// Command pipecanvasd serves the pipeline validator HTTP API: it
// answers POST /pipelines/parse with node and edge counts plus a DAG
// verdict, keeps a SQLite audit of recent verdicts, and exposes
// Prometheus metrics on /metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML or JSON config file")
		listenAddr = flag.String("listen", "", "bind address (overrides config)")
		auditPath  = flag.String("audit", "", "SQLite audit path (overrides config)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	settings := config.DefaultSettings()
	if *configPath != "" {
		cfg, err := config.FromFile(*configPath)
		if err != nil {
			logger.Error("load config failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		settings = config.SettingsFrom(cfg)
	}
	if *listenAddr != "" {
		settings.ListenAddr = *listenAddr
	}
	if *auditPath != "" {
		settings.AuditPath = *auditPath
	}

	audit, err := NewAuditStore(settings.AuditPath)
	if err != nil {
		logger.Error("open audit store failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer audit.Close()

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           NewServer(logger, audit).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("validator listening", slog.String("addr", settings.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
