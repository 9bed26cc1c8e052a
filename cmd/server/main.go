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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tradedocs/internal/cache"
	"tradedocs/internal/config"
	"tradedocs/internal/extraction"
	"tradedocs/internal/handler"
	"tradedocs/internal/llm"
	_ "tradedocs/internal/llm/claude"
	_ "tradedocs/internal/llm/gemini"
	_ "tradedocs/internal/llm/openai"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
	"tradedocs/internal/repository/postgres"
	"tradedocs/internal/router"
	"tradedocs/internal/service"
	s3storage "tradedocs/internal/storage/s3"
	"tradedocs/internal/validator"
)

const shutdownTimeout = 30 * time.Second

// @title tradedocs API
// @version 1.0
// @description Multi-step LLM extraction of import paperwork: invoices, packing lists, SWIFT, DI, numerario and nota fiscal.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	extractionRepo := postgres.NewExtractionRepo(db)
	importRepo := postgres.NewImportProcessRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	checks := map[string]handler.CheckFunc{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// Initialize result cache
	var resultCache port.ResultCache = cache.NoopResultCache{}
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisResultCache(&cfg.Cache)
		if err != nil {
			return fmt.Errorf("failed to connect to result cache: %w", err)
		}
		defer redisCache.Close()
		resultCache = redisCache
		checks["cache"] = redisCache.Ping
		log.Info().Str("addr", cfg.Cache.Addr).Msg("result cache enabled")
	}

	// Initialize model client
	modelClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.DefaultModel).Msg("model client ready")

	orchestrator := extraction.NewOrchestrator(modelClient, nil)

	// Initialize services
	extractionSvc := service.NewExtractionService(
		extractionRepo, importRepo, s3Client, resultCache, orchestrator, validator.New(), &cfg.S3,
	)
	importSvc := service.NewImportProcessService(importRepo, extractionRepo)

	worker := service.NewExtractionQueueWorker(extractionRepo, extractionSvc, service.ExtractionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
		RunTimeout:   time.Duration(cfg.Queue.RunTimeoutSecs) * time.Second,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Initialize handlers
	handlers := router.Handlers{
		Health:        handler.NewHealthHandler(checks),
		DocumentType:  handler.NewDocumentTypeHandler(orchestrator.Catalog()),
		Extraction:    handler.NewExtractionHandler(extractionSvc, cfg.S3.MaxFileSizeMB*1024*1024),
		ImportProcess: handler.NewImportProcessHandler(importSvc),
	}

	r := router.Setup(handlers, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	<-workerDone
	return nil
}
