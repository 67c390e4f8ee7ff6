package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"estateprice/artifacts"
	"estateprice/config"
	"estateprice/db"
	"estateprice/estimate"
	qhttp "estateprice/http"
	"estateprice/logging"
	"estateprice/monitoring"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logger.Sync()

	logger.Info("server configuration",
		zap.String("addr", cfg.Addr()),
		zap.String("columns_path", cfg.Artifacts.ColumnsPath),
		zap.String("model_path", cfg.Artifacts.ModelPath),
		zap.String("model_type", cfg.Artifacts.ModelType),
		zap.String("database_path", cfg.Database.Path))

	// 2. Artifacts and services
	store := artifacts.NewStore(cfg.Artifacts.ColumnsPath, cfg.Artifacts.ModelPath, cfg.Artifacts.ModelType,
		artifacts.WithLogger(logger.Named("artifacts")))
	metrics := monitoring.NewMetrics()

	opts := []estimate.Option{
		estimate.WithFormatter(estimate.Formatter{
			Prefix:    cfg.Format.Prefix,
			LargeUnit: cfg.Format.LargeLabel,
			SmallUnit: cfg.Format.SmallLabel,
		}),
		estimate.WithLocationCache(cfg.Cache.LocationSize),
		estimate.WithObserver(metrics),
		estimate.WithLogger(logger.Named("estimate")),
	}

	deps := qhttp.Dependencies{Status: store, Metrics: metrics, Logger: logger.Named("http")}
	if cfg.Database.Path != "" {
		history, err := db.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatal("failed to open prediction history", zap.Error(err))
		}
		defer history.Close()
		opts = append(opts, estimate.WithRecorder(history))
		deps.History = history
		logger.Info("prediction history enabled", zap.String("path", cfg.Database.Path))
	}
	deps.Estimator = estimate.NewService(store, opts...)

	if cfg.Artifacts.Preload {
		if err := store.Load(); err != nil {
			logger.Warn("failed to pre-load artifacts, will attempt lazy loading on first request", zap.Error(err))
		}
	}
	metrics.SetArtifactsLoaded(store.Loaded())

	// 3. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Host:           cfg.Http.Host,
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}, deps)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}
