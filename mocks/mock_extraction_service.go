package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
	"tradedocs/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
	progress []ProgressEvent
}

func (m *MockExtractionService) Submit(ctx context.Context, input service.SubmitInput) (*domain.Extraction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

// ExtractNow replays any progress calls configured with WithProgress before
// returning the configured result.
func (m *MockExtractionService) ExtractNow(ctx context.Context, input service.SubmitInput, onProgress extraction.ProgressFunc) (*domain.Extraction, error) {
	args := m.Called(ctx, input, onProgress)
	if onProgress != nil {
		for _, p := range m.progress {
			onProgress(p.Step, p.TotalSteps, p.StepName, p.StepDescription)
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

// ProgressEvent is a progress notification replayed by ExtractNow.
type ProgressEvent struct {
	Step            int
	TotalSteps      int
	StepName        string
	StepDescription string
}

// WithProgress sets the progress notifications ExtractNow replays.
func (m *MockExtractionService) WithProgress(events ...ProgressEvent) *MockExtractionService {
	m.progress = events
	return m
}

func (m *MockExtractionService) Process(ctx context.Context, e *domain.Extraction, maxAttempts int) {
	m.Called(ctx, e, maxAttempts)
}

func (m *MockExtractionService) Get(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

func (m *MockExtractionService) List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Extraction), args.Int(1), args.Error(2)
}

func (m *MockExtractionService) UpdateSection(ctx context.Context, id uuid.UUID, section domain.SectionName, data json.RawMessage) (*domain.Extraction, error) {
	args := m.Called(ctx, id, section, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

func (m *MockExtractionService) Retry(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extraction), args.Error(1)
}

func (m *MockExtractionService) Export(ctx context.Context, id uuid.UUID, section domain.SectionName, format domain.ExportFormat) (*service.ExportOutput, error) {
	args := m.Called(ctx, id, section, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}

func (m *MockExtractionService) GetFileURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
