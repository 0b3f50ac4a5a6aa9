package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordflash/internal/api"
	"wordflash/internal/config"
	"wordflash/internal/db"
	"wordflash/internal/logger"
	"wordflash/internal/repository/sqlite"
	"wordflash/internal/scheduler"
	"wordflash/internal/services"
	"wordflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WordFlash Review Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("sweep_worker_count=%d", cfg.SweepWorkerCount)
	log.Debug("sweep_queue_size=%d", cfg.SweepQueueSize)
	log.Debug("reset_sweep_time=%s", cfg.ResetSweepTime)
	log.Debug("config_cache_ttl_seconds=%d", cfg.ConfigCacheTTLSeconds)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	wordRepo := sqlite.NewWordReviewRepository(database)
	historyRepo := sqlite.NewReviewHistoryRepository(database)
	configRepo := sqlite.NewReviewConfigRepository(database)

	cacheTTL := time.Duration(cfg.ConfigCacheTTLSeconds) * time.Second
	configService := services.NewConfigService(configRepo,
		services.NewConfigCache(cacheTTL, time.Now), time.Now)
	reviewService := services.NewReviewService(wordRepo, historyRepo, configService, time.Now)
	planService := services.NewPlanService(wordRepo, configService, time.Now)
	statsService := services.NewStatsService(wordRepo, historyRepo, time.Now)

	sweepPool := worker.NewPool(cfg.SweepWorkerCount, cfg.SweepQueueSize)

	srv := &api.Server{
		DB:      database,
		Reviews: reviewService,
		Plans:   planService,
		Stats:   statsService,
		Configs: configService,
		Pool:    sweepPool,
	}

	ctx, cancel := context.WithCancel(context.Background())
	sweepPool.Start(ctx)

	sched := scheduler.New(wordRepo, configService, sweepPool, cfg.ResetSweepTime, time.Now)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping sweep pool")
	sweepPool.Stop()

	log.Info("===========================================")
	log.Info("WordFlash Review Server Stopped")
	log.Info("===========================================")
}
