package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tradedocs/internal/domain"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
)

// CreateImportProcessInput is the DTO for opening an import process.
type CreateImportProcessInput struct {
	Reference   string
	Description string
}

// ImportProcessService groups extractions under import shipments.
type ImportProcessService interface {
	Create(ctx context.Context, input CreateImportProcessInput) (*domain.ImportProcess, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ImportProcessDetail, error)
	List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error)
	LinkExtraction(ctx context.Context, processID, extractionID uuid.UUID) (*domain.Extraction, error)
}

type importProcessService struct {
	repo           port.ImportProcessRepository
	extractionRepo port.ExtractionRepository
	log            zerolog.Logger
}

// NewImportProcessService creates a new ImportProcessService implementation.
func NewImportProcessService(repo port.ImportProcessRepository, extractionRepo port.ExtractionRepository) ImportProcessService {
	return &importProcessService{
		repo:           repo,
		extractionRepo: extractionRepo,
		log:            logger.WithComponent("import_process_service"),
	}
}

func (s *importProcessService) Create(ctx context.Context, input CreateImportProcessInput) (*domain.ImportProcess, error) {
	ref := strings.TrimSpace(input.Reference)
	if ref == "" {
		return nil, domain.ErrMissingReference
	}
	p := &domain.ImportProcess{
		ID:          uuid.New(),
		Reference:   ref,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.ImportProcessStatusOpen,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("import_process_id", p.ID.String()).Str("reference", ref).Msg("import process created")
	return p, nil
}

func (s *importProcessService) Get(ctx context.Context, id uuid.UUID) (*domain.ImportProcessDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	extractions, err := s.extractionRepo.ListByImportProcess(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing extractions: %w", err)
	}
	if extractions == nil {
		extractions = []domain.Extraction{}
	}
	return &domain.ImportProcessDetail{ImportProcess: *p, Extractions: extractions}, nil
}

func (s *importProcessService) List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *importProcessService) LinkExtraction(ctx context.Context, processID, extractionID uuid.UUID) (*domain.Extraction, error) {
	if _, err := s.repo.GetByID(ctx, processID); err != nil {
		return nil, err
	}
	e, err := s.extractionRepo.GetByID(ctx, extractionID)
	if err != nil {
		return nil, err
	}
	if err := s.extractionRepo.SetImportProcess(ctx, extractionID, processID); err != nil {
		return nil, err
	}
	e.ImportProcessID = &processID
	return e, nil
}
