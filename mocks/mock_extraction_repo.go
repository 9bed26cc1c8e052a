package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
)

// MockExtractionRepo is a mock implementation of port.ExtractionRepository.
type MockExtractionRepo struct {
	mock.Mock
}

func (m *MockExtractionRepo) Create(ctx context.Context, e *domain.Extraction) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExtractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

func (m *MockExtractionRepo) List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Extraction), args.Int(1), args.Error(2)
}

func (m *MockExtractionRepo) ListByImportProcess(ctx context.Context, importProcessID uuid.UUID) ([]domain.Extraction, error) {
	args := m.Called(ctx, importProcessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extraction), args.Error(1)
}

func (m *MockExtractionRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress domain.ExtractionProgress) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *MockExtractionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExtractionStatus, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockExtractionRepo) Requeue(ctx context.Context, id uuid.UUID, retryAt *time.Time, errMsg string) error {
	args := m.Called(ctx, id, retryAt, errMsg)
	return args.Error(0)
}

func (m *MockExtractionRepo) ResetForRetry(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExtractionRepo) Complete(ctx context.Context, e *domain.Extraction) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExtractionRepo) UpdateResult(ctx context.Context, id uuid.UUID, result json.RawMessage, warnings json.RawMessage) error {
	args := m.Called(ctx, id, result, warnings)
	return args.Error(0)
}

func (m *MockExtractionRepo) SetImportProcess(ctx context.Context, id uuid.UUID, importProcessID uuid.UUID) error {
	args := m.Called(ctx, id, importProcessID)
	return args.Error(0)
}

func (m *MockExtractionRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Extraction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extraction), args.Error(1)
}
