package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
	"tradedocs/internal/service"
)

// MockImportProcessService is a mock implementation of service.ImportProcessService.
type MockImportProcessService struct {
	mock.Mock
}

func (m *MockImportProcessService) Create(ctx context.Context, input service.CreateImportProcessInput) (*domain.ImportProcess, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportProcess), args.Error(1)
}

func (m *MockImportProcessService) Get(ctx context.Context, id uuid.UUID) (*domain.ImportProcessDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportProcessDetail), args.Error(1)
}

func (m *MockImportProcessService) List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportProcess), args.Int(1), args.Error(2)
}

func (m *MockImportProcessService) LinkExtraction(ctx context.Context, processID, extractionID uuid.UUID) (*domain.Extraction, error) {
	args := m.Called(ctx, processID, extractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}
