package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradedocs/internal/logger"
	"tradedocs/internal/port"
)

// ExtractionQueueConfig holds settings for the extraction queue worker.
type ExtractionQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	RunTimeout   time.Duration
}

// ExtractionQueueWorker polls for queued extractions and dispatches them.
type ExtractionQueueWorker struct {
	repo    port.ExtractionRepository
	service ExtractionService
	cfg     ExtractionQueueConfig
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewExtractionQueueWorker creates a new ExtractionQueueWorker.
func NewExtractionQueueWorker(repo port.ExtractionRepository, svc ExtractionService, cfg ExtractionQueueConfig) *ExtractionQueueWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 15 * time.Minute
	}
	return &ExtractionQueueWorker{
		repo:    repo,
		service: svc,
		cfg:     cfg,
		log:     logger.WithComponent("extraction_queue_worker"),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight runs have finished.
func (w *ExtractionQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info().
		Dur("poll_interval", w.cfg.PollInterval).
		Int("concurrency", w.cfg.Concurrency).
		Int("max_retries", w.cfg.MaxRetries).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("shutting down, waiting for in-flight extractions")
			w.wg.Wait()
			w.log.Info().Msg("shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			items, err := w.repo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.log.Error().Err(err).Msg("claiming queued extractions")
				continue
			}

			for i := range items {
				item := items[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// Detached from the poll context so shutdown lets in-flight runs
					// finish; the run timeout still reaches the model calls.
					runCtx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
					defer cancel()

					w.log.Info().
						Str("extraction_id", item.ID.String()).
						Int("attempt", item.Attempts).
						Msg("dispatching extraction")
					w.service.Process(runCtx, &item, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
