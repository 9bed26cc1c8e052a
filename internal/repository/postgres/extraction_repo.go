package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a new PostgreSQL-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

func (r *extractionRepo) Create(ctx context.Context, e *domain.Extraction) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO extractions (
		id, import_process_id, document_type, file_name, content_type,
		file_size, file_hash, page_count, s3_bucket, s3_key,
		status, current_step, total_steps, current_step_name,
		result, warnings, error_message, attempts, cache_hit,
		input_tokens, output_tokens, processing_time_ms, completed_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17, $18, $19,
		$20, $21, $22, $23,
		$24, $25
	)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.ImportProcessID, e.DocumentType, e.FileName, e.ContentType,
		e.FileSize, e.FileHash, e.PageCount, e.S3Bucket, e.S3Key,
		e.Status, e.CurrentStep, e.TotalSteps, e.CurrentStepName,
		nullJSON(e.Result), nullJSON(e.Warnings), e.ErrorMessage, e.Attempts, e.CacheHit,
		e.InputTokens, e.OutputTokens, e.ProcessingTimeMs, e.CompletedAt,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("extractionRepo.Create: %w", err)
	}
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	var e domain.Extraction
	err := r.db.GetContext(ctx, &e, "SELECT * FROM extractions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExtractionNotFound
		}
		return nil, fmt.Errorf("extractionRepo.GetByID: %w", err)
	}
	return &e, nil
}

func (r *extractionRepo) List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error) {
	where, args := extractionFilterClause(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM extractions"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM extractions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	var items []domain.Extraction
	if err := r.db.SelectContext(ctx, &items, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.List: %w", err)
	}
	return items, total, nil
}

// extractionFilterClause builds the WHERE clause and positional args for filter.
func extractionFilterClause(filter domain.ExtractionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		conds = append(conds, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ImportProcessID != nil {
		args = append(args, *filter.ImportProcessID)
		conds = append(conds, fmt.Sprintf("import_process_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *extractionRepo) ListByImportProcess(ctx context.Context, importProcessID uuid.UUID) ([]domain.Extraction, error) {
	var items []domain.Extraction
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM extractions WHERE import_process_id = $1 ORDER BY created_at", importProcessID)
	if err != nil {
		return nil, fmt.Errorf("extractionRepo.ListByImportProcess: %w", err)
	}
	return items, nil
}

func (r *extractionRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress domain.ExtractionProgress) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extractions
		 SET current_step = $1, total_steps = $2, current_step_name = $3, updated_at = $4
		 WHERE id = $5`,
		progress.CurrentStep, progress.TotalSteps, progress.CurrentStepName, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.UpdateProgress: %w", err)
	}
	return nil
}

func (r *extractionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExtractionStatus, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE extractions SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4",
		status, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.UpdateStatus: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotFound)
}

func (r *extractionRepo) Requeue(ctx context.Context, id uuid.UUID, retryAt *time.Time, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE extractions SET status = $1, retry_after = $2, error_message = $3, updated_at = $4 WHERE id = $5",
		domain.ExtractionStatusQueued, retryAt, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.Requeue: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotFound)
}

func (r *extractionRepo) ResetForRetry(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE extractions SET
			status = $1, attempts = 0, retry_after = NULL, error_message = '',
			current_step = 0, current_step_name = '', updated_at = $2
		 WHERE id = $3 AND status = $4`,
		domain.ExtractionStatusQueued, time.Now().UTC(), id, domain.ExtractionStatusFailed)
	if err != nil {
		return fmt.Errorf("extractionRepo.ResetForRetry: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotRetryable)
}

func (r *extractionRepo) Complete(ctx context.Context, e *domain.Extraction) error {
	e.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE extractions SET
			status = $1, current_step = $2, total_steps = $3, current_step_name = $4,
			result = $5, warnings = $6, error_message = '', input_tokens = $7, output_tokens = $8,
			processing_time_ms = $9, completed_at = $10, updated_at = $11
		 WHERE id = $12`,
		e.Status, e.CurrentStep, e.TotalSteps, e.CurrentStepName,
		nullJSON(e.Result), nullJSON(e.Warnings), e.InputTokens, e.OutputTokens,
		e.ProcessingTimeMs, e.CompletedAt, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("extractionRepo.Complete: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotFound)
}

func (r *extractionRepo) UpdateResult(ctx context.Context, id uuid.UUID, resultJSON, warnings json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE extractions SET result = $1, warnings = $2, updated_at = $3 WHERE id = $4",
		nullJSON(resultJSON), nullJSON(warnings), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.UpdateResult: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotFound)
}

func (r *extractionRepo) SetImportProcess(ctx context.Context, id, importProcessID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE extractions SET import_process_id = $1, updated_at = $2 WHERE id = $3",
		importProcessID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("extractionRepo.SetImportProcess: %w", err)
	}
	return requireOneRow(result, domain.ErrExtractionNotFound)
}

// ClaimQueued moves up to limit of the oldest queued extractions to processing.
// SKIP LOCKED lets several workers poll the same table without claiming a row twice.
func (r *extractionRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Extraction, error) {
	var items []domain.Extraction
	err := r.db.SelectContext(ctx, &items,
		`UPDATE extractions SET
			status = $1, attempts = attempts + 1, retry_after = NULL,
			current_step = 0, current_step_name = '', updated_at = $2
		 WHERE id IN (
			SELECT id FROM extractions
			WHERE status = $3 AND (retry_after IS NULL OR retry_after <= $2)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.ExtractionStatusProcessing, time.Now().UTC(), domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("extractionRepo.ClaimQueued: %w", err)
	}
	return items, nil
}

func requireOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// nullJSON maps an empty raw message to SQL NULL so JSONB columns never receive "".
func nullJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
