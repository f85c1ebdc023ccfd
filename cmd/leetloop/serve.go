package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/leetloop/leetloop/internal/api"
	"github.com/leetloop/leetloop/internal/jobs"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/worker"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background workers",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	log := logger.Default()
	log.Info("===========================================")
	log.Info("LeetLoop Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("llm_enabled=%t", cfg.LLMEnabled())
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("analysis_worker_count=%d", cfg.AnalysisWorkerCount)
	log.Debug("analysis_queue_size=%d", cfg.AnalysisQueueSize)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		_ = a.Close()
	}()

	syncPool := worker.NewPool("sync", cfg.SyncWorkerCount, cfg.SyncQueueSize)
	analysisPool := worker.NewPool("analysis", cfg.AnalysisWorkerCount, cfg.AnalysisQueueSize)

	srv := &api.Server{
		ProfileService:    a.profiles,
		SyncService:       a.sync,
		AnalysisService:   a.analysis,
		ReviewService:     a.reviews,
		StatsService:      a.stats,
		JobQueue:          jobs.NewWorkerQueue(syncPool, analysisPool, a.sync, a.analysis),
		DB:                a.db,
		RequestsPerSecond: cfg.APIRequestsPerSecond,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	syncPool.Start(workerCtx)
	analysisPool.Start(workerCtx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			syncPool.Stop()
			analysisPool.Stop()
			return err
		}
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Sync jobs feed the analysis pool, so stop them first.
	log.Debug("stopping sync pool")
	syncPool.Stop()
	log.Debug("stopping analysis pool")
	analysisPool.Stop()

	log.Info("===========================================")
	log.Info("LeetLoop Server Stopped")
	log.Info("===========================================")
	return nil
}
