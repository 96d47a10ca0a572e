package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listings/internal/api"
	"listings/internal/config"
	"listings/internal/monitoring"
	"listings/internal/scraper"
	"listings/internal/storage"

	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Initialize Storage Layer
	pgStore, err := storage.NewPostgresStore(cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	importCache := storage.NewImportCache(cfg.RedisAddr)

	// Initialize Monitoring
	metrics := monitoring.NewMetrics()

	// Initialize Import Pipeline
	fetcher := scraper.NewFetcher(time.Duration(cfg.FetchTimeout)*time.Second, cfg.RenderJS)
	cacheTTL := time.Duration(cfg.ImportCacheHours) * time.Hour
	importer := scraper.NewService(fetcher, importCache, cacheTTL, metrics, logger)

	// Initialize API Server
	server := api.NewServer(cfg, importer, pgStore, importCache, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
