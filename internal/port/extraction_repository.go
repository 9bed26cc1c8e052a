package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tradedocs/internal/domain"
)

// ExtractionRepository persists extraction runs.
type ExtractionRepository interface {
	Create(ctx context.Context, e *domain.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error)
	ListByImportProcess(ctx context.Context, importProcessID uuid.UUID) ([]domain.Extraction, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress domain.ExtractionProgress) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExtractionStatus, errMsg string) error
	// Requeue puts a claimed extraction back in the queue, not to be claimed
	// again before retryAt. A nil retryAt makes it claimable immediately.
	Requeue(ctx context.Context, id uuid.UUID, retryAt *time.Time, errMsg string) error
	// ResetForRetry queues a failed extraction again with a fresh attempt budget.
	ResetForRetry(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, e *domain.Extraction) error
	UpdateResult(ctx context.Context, id uuid.UUID, result json.RawMessage, warnings json.RawMessage) error
	SetImportProcess(ctx context.Context, id uuid.UUID, importProcessID uuid.UUID) error
	// ClaimQueued atomically moves up to limit queued extractions to processing
	// and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Extraction, error)
}
