package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
)

// MockImportProcessRepo is a mock implementation of port.ImportProcessRepository.
type MockImportProcessRepo struct {
	mock.Mock
}

func (m *MockImportProcessRepo) Create(ctx context.Context, p *domain.ImportProcess) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockImportProcessRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportProcess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportProcess), args.Error(1)
}

func (m *MockImportProcessRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportProcess, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportProcess), args.Int(1), args.Error(2)
}
