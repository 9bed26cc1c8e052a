package port

import (
	"context"
	"errors"

	"tradedocs/internal/domain"
)

// ErrCacheMiss is returned by ResultCache.Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores finished run results keyed by file hash and document type,
// so re-uploads of the same document skip the model calls.
type ResultCache interface {
	Get(ctx context.Context, fileHash string, docType domain.DocumentType) (*domain.MultiPromptResult, error)
	Set(ctx context.Context, fileHash string, docType domain.DocumentType, result *domain.MultiPromptResult) error
}
