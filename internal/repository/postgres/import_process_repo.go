package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

type importProcessRepo struct {
	db *sqlx.DB
}

// NewImportProcessRepo creates a new PostgreSQL-backed ImportProcessRepository.
func NewImportProcessRepo(db *sqlx.DB) port.ImportProcessRepository {
	return &importProcessRepo{db: db}
}

func (r *importProcessRepo) Create(ctx context.Context, p *domain.ImportProcess) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO import_processes (id, reference, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Reference, p.Description, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "import_processes_reference_key") {
			return domain.ErrDuplicateImportRef
		}
		return fmt.Errorf("importProcessRepo.Create: %w", err)
	}
	return nil
}

func (r *importProcessRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportProcess, error) {
	var p domain.ImportProcess
	err := r.db.GetContext(ctx, &p, "SELECT * FROM import_processes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrImportProcessNotFound
		}
		return nil, fmt.Errorf("importProcessRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *importProcessRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_processes"); err != nil {
		return nil, 0, fmt.Errorf("importProcessRepo.List count: %w", err)
	}

	var items []domain.ImportProcess
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM import_processes ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("importProcessRepo.List: %w", err)
	}
	return items, total, nil
}
