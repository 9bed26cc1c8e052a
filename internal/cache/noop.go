package cache

import (
	"context"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

// NoopResultCache is used when caching is disabled. Every lookup misses.
type NoopResultCache struct{}

func (NoopResultCache) Get(_ context.Context, _ string, _ domain.DocumentType) (*domain.MultiPromptResult, error) {
	return nil, port.ErrCacheMiss
}

func (NoopResultCache) Set(_ context.Context, _ string, _ domain.DocumentType, _ *domain.MultiPromptResult) error {
	return nil
}
