package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voxdata/connector/internal/api"
	"github.com/voxdata/connector/internal/audit"
	"github.com/voxdata/connector/internal/config"
	"github.com/voxdata/connector/internal/inference"
	"github.com/voxdata/connector/internal/ingest"
	"github.com/voxdata/connector/internal/pipeline"
	"github.com/voxdata/connector/internal/server"
	"github.com/voxdata/connector/internal/store"
	"github.com/voxdata/connector/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracer, err := telemetry.Init("vox-connector", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	thresholds := pipeline.Thresholds{
		AggregationThreshold: cfg.Query.AggregationThreshold,
		VoiceMaxResults:      cfg.Query.VoiceMaxResults,
		DefaultPageSize:      cfg.Query.DefaultPageSize,
		MaxPageSize:          cfg.Query.MaxPageSize,
	}

	var svcOpts []pipeline.Option
	var handlerOpts []api.Option
	if cfg.Audit.DBPath != "" {
		auditStore, err := audit.Open(cfg.Audit.DBPath)
		if err != nil {
			log.Fatalf("Failed to open audit store: %v", err)
		}
		defer auditStore.Close()
		svcOpts = append(svcOpts, pipeline.WithRecorder(auditStore))
		handlerOpts = append(handlerOpts, api.WithAuditStore(auditStore))
		logger.Info("query audit log enabled", slog.String("path", cfg.Audit.DBPath))
	}

	svc := pipeline.NewService(store.NewFileStore(cfg.Data.Dir), thresholds, logger, svcOpts...)
	ingestor := ingest.New(cfg.Data.Dir, logger)

	var clientOpts []inference.ClientOption
	if cfg.HuggingFace.BaseURL != "" {
		clientOpts = append(clientOpts, inference.WithBaseURL(cfg.HuggingFace.BaseURL))
	}
	analyzer := inference.NewAnalyzer(inference.NewClient(cfg.HuggingFace.APIKey, clientOpts...))

	handler := api.NewHandler(svc, ingestor, analyzer, logger, handlerOpts...)

	srv := server.New(cfg.Server.Port, time.Duration(cfg.Server.TimeoutSeconds)*time.Second, logger)
	handler.Register(srv.Router)

	go func() {
		logger.Info("connector listening", slog.Int("port", cfg.Server.Port))
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("connector shutdown complete")
}
