package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
)

// MockResultCache is a mock implementation of port.ResultCache.
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, fileHash string, docType domain.DocumentType) (*domain.MultiPromptResult, error) {
	args := m.Called(ctx, fileHash, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MultiPromptResult), args.Error(1)
}

func (m *MockResultCache) Set(ctx context.Context, fileHash string, docType domain.DocumentType, result *domain.MultiPromptResult) error {
	args := m.Called(ctx, fileHash, docType, result)
	return args.Error(0)
}
