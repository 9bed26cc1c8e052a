package port

import (
	"context"

	"github.com/google/uuid"

	"tradedocs/internal/domain"
)

// ImportProcessRepository persists import processes.
type ImportProcessRepository interface {
	Create(ctx context.Context, p *domain.ImportProcess) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportProcess, error)
	List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error)
}
