package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"downloaderapi/config"
	"downloaderapi/internal/cache"
	"downloaderapi/internal/extractor"
	"downloaderapi/internal/handler"
	"downloaderapi/internal/metrics"
	"downloaderapi/internal/model"
	"downloaderapi/internal/service"
	"downloaderapi/internal/storage"
	"downloaderapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(&cfg.Logging, cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting downloader API",
		zap.String("version", cfg.App.Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("extractor", cfg.Extractor.Backend),
	)

	// Storage failures surface through /ready rather than stopping startup.
	storageManager := storage.NewManager(&cfg.Storage)
	if err := storageManager.EnsureDownloadDir(); err != nil {
		logger.Logger.Error("Failed to create download directory", zap.Error(err))
	}
	storageManager.Start()
	defer storageManager.Stop()

	ex, err := newExtractor(&cfg.Extractor)
	if err != nil {
		logger.Logger.Fatal("Invalid extractor configuration", zap.Error(err))
	}

	// Initialize services
	videoService := service.NewVideoService(ex, newInfoCache(&cfg.Cache))
	downloadService := service.NewDownloadService(
		ex,
		storageManager,
		cfg.Storage.MaxDownloadSizeMB,
		cfg.Storage.MergeFormat,
	)

	reg := metrics.New(cfg.App.Version)

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Handlers{
		Video:    handler.NewVideoHandler(videoService, reg, cfg),
		Download: handler.NewDownloadHandler(downloadService, reg, cfg),
		Status:   handler.NewStatusHandler(storageManager, reg, cfg),
	}, reg)

	// Start server
	srv := newServer(&cfg.Server, router)

	go func() {
		logger.Logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
}

// newExtractor selects the engine backend
func newExtractor(cfg *model.ExtractorConfig) (extractor.Extractor, error) {
	switch cfg.Backend {
	case model.ExtractorYtDlp, "":
		return extractor.NewYtDlp(cfg.BinaryPath), nil
	case model.ExtractorWorker:
		logger.Logger.Info("Using extraction worker",
			zap.String("host", cfg.WorkerHost),
			zap.Int("port", cfg.WorkerPort))
		return extractor.NewWorker(cfg.WorkerHost, cfg.WorkerPort, cfg.WorkerTimeout), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", cfg.Backend)
	}
}

// newInfoCache returns a Redis-backed cache, or nil when Redis is not
// configured or unreachable at startup.
func newInfoCache(cfg *model.CacheConfig) service.InfoCache {
	client := cache.NewRedisClient(cfg)
	if client == nil {
		return nil
	}
	if err := cache.Ping(context.Background(), client); err != nil {
		logger.Logger.Warn("Redis unavailable, info cache disabled",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Logger.Info("Info cache enabled",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("ttl_seconds", cfg.TTLSeconds))
	return cache.NewRedisCache(client, time.Duration(cfg.TTLSeconds)*time.Second)
}

// newServer builds the HTTP server. Writes are unbounded since a fetch may run
// for as long as the engine needs.
func newServer(cfg *model.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     h,
		ReadTimeout: time.Duration(cfg.Timeout) * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}
