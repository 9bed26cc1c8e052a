package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
	"tradedocs/internal/llm"
	"tradedocs/internal/port"
	"tradedocs/internal/service"
	"tradedocs/internal/validator"
	"tradedocs/mocks"
)

const swiftJSON = `{"transactionReference":"REF123","valueDate":"2024-03-01","currency":"USD","amount":"1500.00","beneficiary":"ACME LTDA"}`

type extractionFixture struct {
	svc        service.ExtractionService
	repo       *mocks.MockExtractionRepo
	importRepo *mocks.MockImportProcessRepo
	storage    *mocks.MockObjectStorage
	cache      *mocks.MockResultCache
	client     *mocks.MockModelClient
}

func setupExtractionService() *extractionFixture {
	f := &extractionFixture{
		repo:       new(mocks.MockExtractionRepo),
		importRepo: new(mocks.MockImportProcessRepo),
		storage:    new(mocks.MockObjectStorage),
		cache:      new(mocks.MockResultCache),
		client:     new(mocks.MockModelClient),
	}
	cfg := &config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 1, PresignExpiry: 900}
	f.svc = service.NewExtractionService(
		f.repo, f.importRepo, f.storage, f.cache,
		extraction.NewOrchestrator(f.client, nil),
		validator.New(), cfg,
	)
	return f
}

// pngBytes is enough of a PNG for content sniffing.
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
}

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func completedExtraction(t *testing.T, docType domain.DocumentType, sections domain.StructuredResult, extracted string) *domain.Extraction {
	t.Helper()
	result := domain.MultiPromptResult{
		Success:      true,
		DocumentType: docType,
		TotalSteps:   len(sections),
		FinalResult: domain.FinalResult{
			ExtractedData:    json.RawMessage(extracted),
			StructuredResult: sections,
		},
	}
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	return &domain.Extraction{
		ID:           uuid.New(),
		DocumentType: docType,
		FileName:     "di-0001.pdf",
		Status:       domain.ExtractionStatusCompleted,
		Result:       raw,
		S3Bucket:     "test-bucket",
		S3Key:        "extractions/di/x/di-0001.pdf",
	}
}

func diSections() domain.StructuredResult {
	step := func(n int, name string) domain.StepResult { return domain.StepResult{Step: n, StepName: name} }
	return domain.StructuredResult{
		domain.SectionHeader: domain.NewSection(json.RawMessage(`{"diNumber":"24/0001"}`), step(1, "General data")),
		domain.SectionItems:  domain.NewSection(json.RawMessage(`[{"ncm":"8413.70.10","quantity":2}]`), step(2, "Additions")),
	}
}

// --- Submit ---

func TestExtractionService_Submit_QueuesDocument(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.AnythingOfType("string"), domain.DocumentTypeSwift).
		Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" &&
			strings.HasPrefix(in.Key, "extractions/swift/") &&
			strings.HasSuffix(in.Key, "/mt103.png") &&
			in.ContentType == "image/png"
	})).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Extraction")).Return(nil)

	e, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionStatusQueued, e.Status)
	assert.Equal(t, 1, e.TotalSteps)
	assert.Equal(t, 1, e.PageCount)
	assert.Len(t, e.FileHash, 64)
	assert.False(t, e.CacheHit)
	f.client.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestExtractionService_Submit_CreateFailureRemovesUpload(t *testing.T) {
	f := setupExtractionService()

	var key string
	f.cache.On("Get", mock.Anything, mock.Anything, domain.DocumentTypeSwift).Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { key = args.Get(1).(port.UploadInput).Key }).
		Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f.storage.On("Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(nil)

	e, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	assert.Nil(t, e)
	assert.ErrorContains(t, err, "connection reset")
	f.storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", key)
}

func TestExtractionService_Submit_CacheHitCreateFailureRemovesUpload(t *testing.T) {
	f := setupExtractionService()

	cached := &domain.MultiPromptResult{Success: true, DocumentType: domain.DocumentTypeSwift, TotalSteps: 1}
	f.cache.On("Get", mock.Anything, mock.Anything, domain.DocumentTypeSwift).Return(cached, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f.storage.On("Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(nil)

	_, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	require.Error(t, err)
	f.storage.AssertNumberOfCalls(t, "Delete", 1)
}

func TestExtractionService_Submit_PDFPageCount(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.Anything, domain.DocumentTypeDI).Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Extraction")).Return(nil)

	e, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeDI,
		FileName:     "DI.PDF",
		Content:      minimalPDF(),
	})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", e.ContentType)
	assert.Equal(t, 1, e.PageCount)
	assert.Equal(t, 3, e.TotalSteps)
}

func TestExtractionService_Submit_CacheHit(t *testing.T) {
	f := setupExtractionService()

	cached := &domain.MultiPromptResult{
		Success:      true,
		DocumentType: domain.DocumentTypeSwift,
		TotalSteps:   1,
		Steps:        []domain.StepResult{{Step: 1, StepName: "SWIFT message"}},
		FinalResult: domain.FinalResult{
			ExtractedData: json.RawMessage(swiftJSON),
			StructuredResult: domain.StructuredResult{
				domain.SectionHeader: domain.NewSection(json.RawMessage(swiftJSON), domain.StepResult{Step: 1}),
			},
		},
		Metadata: domain.RunMetadata{TotalTokenUsage: domain.TokenUsage{Input: 900, Output: 80}},
	}
	f.cache.On("Get", mock.Anything, mock.Anything, domain.DocumentTypeSwift).Return(cached, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Extraction) bool {
		return e.CacheHit && e.Status == domain.ExtractionStatusCompleted && e.CompletedAt != nil
	})).Return(nil)

	e, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	require.NoError(t, err)
	assert.True(t, e.CacheHit)
	assert.Zero(t, e.InputTokens)
	assert.JSONEq(t, `[]`, string(e.Warnings))
	f.client.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestExtractionService_Submit_CacheErrorTreatedAsMiss(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	e, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionStatusQueued, e.Status)
}

func TestExtractionService_Submit_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   service.SubmitInput
		wantErr error
	}{
		{
			name:    "missing document type",
			input:   service.SubmitInput{FileName: "a.png", Content: pngBytes()},
			wantErr: domain.ErrMissingDocumentType,
		},
		{
			name:    "unsupported extension",
			input:   service.SubmitInput{DocumentType: domain.DocumentTypeDI, FileName: "a.docx", Content: pngBytes()},
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name: "too large",
			input: service.SubmitInput{
				DocumentType: domain.DocumentTypeDI,
				FileName:     "a.png",
				Content:      append(pngBytes(), make([]byte, 1024*1024)...),
			},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "content does not match extension",
			input:   service.SubmitInput{DocumentType: domain.DocumentTypeDI, FileName: "a.pdf", Content: pngBytes()},
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "empty file",
			input:   service.SubmitInput{DocumentType: domain.DocumentTypeDI, FileName: "a.pdf"},
			wantErr: domain.ErrInvalidDocument,
		},
		{
			name:    "broken pdf",
			input:   service.SubmitInput{DocumentType: domain.DocumentTypeDI, FileName: "a.pdf", Content: []byte("%PDF-1.4\nnot really a pdf\n")},
			wantErr: domain.ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupExtractionService()

			_, err := f.svc.Submit(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExtractionService_Submit_UnknownImportProcess(t *testing.T) {
	f := setupExtractionService()
	pid := uuid.New()

	f.importRepo.On("GetByID", mock.Anything, pid).Return(nil, domain.ErrImportProcessNotFound)

	_, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType:    domain.DocumentTypeSwift,
		FileName:        "mt103.png",
		Content:         pngBytes(),
		ImportProcessID: &pid,
	})

	assert.ErrorIs(t, err, domain.ErrImportProcessNotFound)
}

func TestExtractionService_Submit_UploadFails(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := f.svc.Submit(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Process ---

func queuedSwift(attempts int) *domain.Extraction {
	return &domain.Extraction{
		ID:           uuid.New(),
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		ContentType:  "image/png",
		FileHash:     strings.Repeat("a", 64),
		S3Bucket:     "test-bucket",
		S3Key:        "extractions/swift/x/mt103.png",
		Status:       domain.ExtractionStatusProcessing,
		Attempts:     attempts,
	}
}

func TestExtractionService_Process_Success(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	f.storage.On("Download", mock.Anything, "test-bucket", e.S3Key).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, e.ID, domain.ExtractionProgress{
		CurrentStep: 1, TotalSteps: 1, CurrentStepName: "SWIFT message",
	}).Return(nil).Once()
	f.client.On("Invoke", mock.Anything, mock.MatchedBy(func(req port.ModelRequest) bool {
		return req.ContentType == "image/png"
	})).Return(&port.ModelResponse{Text: "```json\n" + swiftJSON + "\n```", InputTokens: 1200, OutputTokens: 150, Model: "m"}, nil)
	f.repo.On("Complete", mock.Anything, mock.MatchedBy(func(c *domain.Extraction) bool {
		return c.ID == e.ID && c.Status == domain.ExtractionStatusCompleted &&
			c.InputTokens == 1200 && c.OutputTokens == 150
	})).Return(nil)
	f.cache.On("Set", mock.Anything, e.FileHash, domain.DocumentTypeSwift, mock.AnythingOfType("*domain.MultiPromptResult")).Return(nil)

	f.svc.Process(context.Background(), e, 3)

	assert.Equal(t, domain.ExtractionStatusCompleted, e.Status)
	assert.JSONEq(t, `[]`, string(e.Warnings))

	var result domain.MultiPromptResult
	require.NoError(t, json.Unmarshal(e.Result, &result))
	assert.JSONEq(t, swiftJSON, string(result.FinalResult.ExtractedData))
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestExtractionService_Process_CacheSetFailureIgnored(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db busy"))
	f.client.On("Invoke", mock.Anything, mock.Anything).Return(&port.ModelResponse{Text: `{"currency":"USD"}`}, nil)
	f.repo.On("Complete", mock.Anything, mock.Anything).Return(nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	f.svc.Process(context.Background(), e, 3)

	assert.Equal(t, domain.ExtractionStatusCompleted, e.Status)
	assert.Contains(t, string(e.Warnings), "header.amount")
}

func TestExtractionService_Process_RateLimitRequeues(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)
	before := time.Now()

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("claude", errors.New("429"), 30))
	f.repo.On("Requeue", mock.Anything, e.ID, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil && !at.Before(before.Add(30*time.Second))
	}), "rate limited by claude, queued for retry").Return(nil)

	f.svc.Process(context.Background(), e, 3)

	f.repo.AssertExpectations(t)
	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractionService_Process_RateLimitExhausted(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(3)

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 0))
	f.repo.On("UpdateStatus", mock.Anything, e.ID, domain.ExtractionStatusFailed, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "step 1 (SWIFT message)") && strings.Contains(msg, "gemini rate limited")
	})).Return(nil)

	f.svc.Process(context.Background(), e, 3)

	assert.Equal(t, domain.ExtractionStatusFailed, e.Status)
	f.repo.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_Process_ModelErrorFails(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("bad request"))
	f.repo.On("UpdateStatus", mock.Anything, e.ID, domain.ExtractionStatusFailed, "step 1 (SWIFT message): bad request").Return(nil)

	f.svc.Process(context.Background(), e, 3)

	assert.Equal(t, domain.ExtractionStatusFailed, e.Status)
	f.repo.AssertExpectations(t)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_Process_RunTimeoutStillMarksFailed(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.DeadlineExceeded)
	f.repo.On("UpdateStatus", live, e.ID, domain.ExtractionStatusFailed, "step 1 (SWIFT message): context deadline exceeded").Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	f.svc.Process(ctx, e, 3)

	assert.Equal(t, domain.ExtractionStatusFailed, e.Status)
	f.repo.AssertExpectations(t)
}

func TestExtractionService_Process_CompletesAfterRunContextEnds(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	ctx, cancel := context.WithCancel(context.Background())
	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pngBytes(), nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	// The run context ends as the last model call returns.
	f.client.On("Invoke", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&port.ModelResponse{Text: swiftJSON}, nil)
	f.repo.On("Complete", live, mock.AnythingOfType("*domain.Extraction")).Return(nil)
	f.cache.On("Set", live, mock.Anything, domain.DocumentTypeSwift, mock.Anything).Return(nil)

	f.svc.Process(ctx, e, 3)

	assert.Equal(t, domain.ExtractionStatusCompleted, e.Status)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestExtractionService_Process_DownloadFails(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)

	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("no such key"))
	f.repo.On("UpdateStatus", mock.Anything, e.ID, domain.ExtractionStatusFailed, "downloading document: no such key").Return(nil)

	f.svc.Process(context.Background(), e, 3)

	f.repo.AssertExpectations(t)
	f.client.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

// --- ExtractNow ---

func TestExtractionService_ExtractNow_ForwardsProgress(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Extraction) bool {
		return e.Status == domain.ExtractionStatusProcessing && e.Attempts == 1
	})).Return(nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).Return(&port.ModelResponse{Text: swiftJSON}, nil)
	f.repo.On("Complete", mock.Anything, mock.Anything).Return(nil)
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var names []string
	e, err := f.svc.ExtractNow(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	}, func(step, total int, name, _ string) {
		names = append(names, fmt.Sprintf("%d/%d %s", step, total, name))
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1/1 SWIFT message"}, names)
	assert.Equal(t, domain.ExtractionStatusCompleted, e.Status)
	assert.Equal(t, 1, e.CurrentStep)
}

func TestExtractionService_ExtractNow_Failure(t *testing.T) {
	f := setupExtractionService()

	f.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, port.ErrCacheMiss)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("UpdateProgress", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.client.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	f.repo.On("UpdateStatus", mock.Anything, mock.Anything, domain.ExtractionStatusFailed, mock.Anything).Return(nil)

	_, err := f.svc.ExtractNow(context.Background(), service.SubmitInput{
		DocumentType: domain.DocumentTypeSwift,
		FileName:     "mt103.png",
		Content:      pngBytes(),
	}, nil)

	var stepErr *extraction.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Step)
	f.repo.AssertExpectations(t)
}

// --- UpdateSection ---

func TestExtractionService_UpdateSection_MirroredSection(t *testing.T) {
	f := setupExtractionService()
	e := completedExtraction(t, domain.DocumentTypeDI, diSections(), `[{"ncm":"8413.70.10","quantity":2}]`)

	var saved json.RawMessage
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	f.repo.On("UpdateResult", mock.Anything, e.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(json.RawMessage) }).
		Return(nil)

	updated, err := f.svc.UpdateSection(context.Background(), e.ID, domain.SectionItems,
		json.RawMessage(` [ {"ncm": "8481.80.99", "quantity": 5} ] `))

	require.NoError(t, err)
	require.NotNil(t, updated)

	var result domain.MultiPromptResult
	require.NoError(t, json.Unmarshal(saved, &result))
	items := result.FinalResult.StructuredResult[domain.SectionItems]
	assert.JSONEq(t, `[{"ncm":"8481.80.99","quantity":5}]`, string(items.Data))
	assert.Equal(t, "manual", items.Source)
	assert.Equal(t, "Additions", items.Metadata.StepName)
	assert.JSONEq(t, `[{"ncm":"8481.80.99","quantity":5}]`, string(result.FinalResult.ExtractedData))
	assert.Equal(t, "step_1", result.FinalResult.StructuredResult[domain.SectionHeader].Source)
}

func TestExtractionService_UpdateSection_AddsMissingSection(t *testing.T) {
	f := setupExtractionService()
	e := completedExtraction(t, domain.DocumentTypeDI, diSections(), `[]`)

	var saved json.RawMessage
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	f.repo.On("UpdateResult", mock.Anything, e.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(json.RawMessage) }).
		Return(nil)

	_, err := f.svc.UpdateSection(context.Background(), e.ID, domain.SectionTaxInfo, json.RawMessage(`[{"tax":"II"}]`))

	require.NoError(t, err)
	var result domain.MultiPromptResult
	require.NoError(t, json.Unmarshal(saved, &result))
	taxes := result.FinalResult.StructuredResult[domain.SectionTaxInfo]
	assert.JSONEq(t, `[{"tax":"II"}]`, string(taxes.Data))
	assert.Equal(t, "manual", taxes.Source)
	assert.Equal(t, 3, taxes.Metadata.Step)
	assert.Equal(t, "Taxes", taxes.Metadata.StepName)
	assert.JSONEq(t, `[]`, string(result.FinalResult.ExtractedData))
}

func TestExtractionService_UpdateSection_RejectsSectionOutsideDocumentType(t *testing.T) {
	tests := []struct {
		name    string
		docType domain.DocumentType
		section domain.SectionName
		data    string
	}{
		{"tax info on swift", domain.DocumentTypeSwift, domain.SectionTaxInfo, `[{"tax":"II"}]`},
		{"containers on di", domain.DocumentTypeDI, domain.SectionContainers, `[{"number":"MSCU1234567"}]`},
		{"items on generic type", "bill_of_lading", domain.SectionItems, `[{"sku":"A"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupExtractionService()
			e := completedExtraction(t, tt.docType, domain.StructuredResult{}, `{}`)
			f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)

			_, err := f.svc.UpdateSection(context.Background(), e.ID, tt.section, json.RawMessage(tt.data))

			assert.ErrorIs(t, err, domain.ErrSectionNotAllowed)
			f.repo.AssertNotCalled(t, "UpdateResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExtractionService_UpdateSection_Errors(t *testing.T) {
	t.Run("wrong shape", func(t *testing.T) {
		f := setupExtractionService()
		_, err := f.svc.UpdateSection(context.Background(), uuid.New(), domain.SectionItems, json.RawMessage(`{"a":1}`))
		assert.ErrorIs(t, err, domain.ErrInvalidSectionData)
	})

	t.Run("unknown section", func(t *testing.T) {
		f := setupExtractionService()
		_, err := f.svc.UpdateSection(context.Background(), uuid.New(), "footer", json.RawMessage(`{}`))
		assert.ErrorIs(t, err, domain.ErrUnknownSection)
	})

	t.Run("not completed", func(t *testing.T) {
		f := setupExtractionService()
		e := queuedSwift(1)
		f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)

		_, err := f.svc.UpdateSection(context.Background(), e.ID, domain.SectionHeader, json.RawMessage(`{}`))
		assert.ErrorIs(t, err, domain.ErrExtractionNotCompleted)
		f.repo.AssertNotCalled(t, "UpdateResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// --- Retry ---

func TestExtractionService_Retry(t *testing.T) {
	f := setupExtractionService()
	failed := queuedSwift(3)
	failed.Status = domain.ExtractionStatusFailed
	requeued := *failed
	requeued.Status = domain.ExtractionStatusQueued
	requeued.Attempts = 0

	f.repo.On("GetByID", mock.Anything, failed.ID).Return(failed, nil).Once()
	f.repo.On("ResetForRetry", mock.Anything, failed.ID).Return(nil)
	f.repo.On("GetByID", mock.Anything, failed.ID).Return(&requeued, nil).Once()

	e, err := f.svc.Retry(context.Background(), failed.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionStatusQueued, e.Status)
	assert.Zero(t, e.Attempts)
}

func TestExtractionService_Retry_NotFailed(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)

	_, err := f.svc.Retry(context.Background(), e.ID)

	assert.ErrorIs(t, err, domain.ErrExtractionNotRetryable)
	f.repo.AssertNotCalled(t, "ResetForRetry", mock.Anything, mock.Anything)
}

// --- Export ---

func TestExtractionService_Export_CSV(t *testing.T) {
	f := setupExtractionService()
	e := completedExtraction(t, domain.DocumentTypeDI, diSections(), `[]`)
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)

	out, err := f.svc.Export(context.Background(), e.ID, domain.SectionItems, domain.ExportFormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.True(t, strings.HasPrefix(out.FileName, "di-0001_items_"))
	assert.True(t, strings.HasSuffix(out.FileName, ".csv"))
	assert.Contains(t, string(out.Body), "ncm,quantity\n8413.70.10,2\n")
}

func TestExtractionService_Export_Errors(t *testing.T) {
	f := setupExtractionService()
	e := completedExtraction(t, domain.DocumentTypeDI, diSections(), `[]`)
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)

	_, err := f.svc.Export(context.Background(), e.ID, domain.SectionTaxInfo, domain.ExportFormatXLSX)
	assert.ErrorIs(t, err, domain.ErrSectionMissing)

	_, err = f.svc.Export(context.Background(), e.ID, domain.SectionItems, "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)

	_, err = f.svc.Export(context.Background(), e.ID, domain.SectionDispositionExplanation, domain.ExportFormatCSV)
	assert.ErrorIs(t, err, domain.ErrSectionMissing)

	_, err = f.svc.Export(context.Background(), e.ID, "footer", domain.ExportFormatCSV)
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
}

// --- GetFileURL ---

func TestExtractionService_GetFileURL(t *testing.T) {
	f := setupExtractionService()
	e := queuedSwift(1)
	f.repo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "test-bucket", e.S3Key, int64(900)).
		Return("https://s3.example.com/signed", nil)

	url, err := f.svc.GetFileURL(context.Background(), e.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/signed", url)
}

func TestExtractionService_GetFileURL_NotFound(t *testing.T) {
	f := setupExtractionService()
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrExtractionNotFound)

	_, err := f.svc.GetFileURL(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrExtractionNotFound)
}
