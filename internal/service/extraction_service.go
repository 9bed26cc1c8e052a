package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/export"
	"tradedocs/internal/extraction"
	"tradedocs/internal/llm"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
	"tradedocs/internal/storage/s3"
	"tradedocs/internal/validator"
)

const manualEditSource = "manual"

// SubmitInput is the DTO for submitting a document for extraction.
type SubmitInput struct {
	DocumentType    domain.DocumentType
	FileName        string
	Content         []byte
	ImportProcessID *uuid.UUID
}

// ExportOutput is a rendered section export ready to be downloaded.
type ExportOutput struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExtractionService defines the extraction lifecycle contract.
type ExtractionService interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Extraction, error)
	ExtractNow(ctx context.Context, input SubmitInput, onProgress extraction.ProgressFunc) (*domain.Extraction, error)
	Process(ctx context.Context, e *domain.Extraction, maxAttempts int)
	Get(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error)
	UpdateSection(ctx context.Context, id uuid.UUID, section domain.SectionName, data json.RawMessage) (*domain.Extraction, error)
	Retry(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	Export(ctx context.Context, id uuid.UUID, section domain.SectionName, format domain.ExportFormat) (*ExportOutput, error)
	GetFileURL(ctx context.Context, id uuid.UUID) (string, error)
}

type extractionService struct {
	repo         port.ExtractionRepository
	importRepo   port.ImportProcessRepository
	storage      port.ObjectStorage
	cache        port.ResultCache
	orchestrator *extraction.Orchestrator
	validator    *validator.Validator
	cfg          *config.S3Config
	log          zerolog.Logger
	now          func() time.Time
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	repo port.ExtractionRepository,
	importRepo port.ImportProcessRepository,
	storage port.ObjectStorage,
	cache port.ResultCache,
	orchestrator *extraction.Orchestrator,
	v *validator.Validator,
	cfg *config.S3Config,
) ExtractionService {
	return &extractionService{
		repo:         repo,
		importRepo:   importRepo,
		storage:      storage,
		cache:        cache,
		orchestrator: orchestrator,
		validator:    v,
		cfg:          cfg,
		log:          logger.WithComponent("extraction_service"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores the document and queues it for the worker. A document whose
// hash and type are already cached completes immediately without model calls.
func (s *extractionService) Submit(ctx context.Context, input SubmitInput) (*domain.Extraction, error) {
	e, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	if cached := s.lookupCache(ctx, e); cached != nil {
		if err := s.upload(ctx, e, input.Content); err != nil {
			return nil, err
		}
		return s.createCompleted(ctx, e, cached)
	}

	if err := s.upload(ctx, e, input.Content); err != nil {
		return nil, err
	}
	e.Status = domain.ExtractionStatusQueued
	if err := s.create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("extraction_id", e.ID.String()).
		Str("document_type", string(e.DocumentType)).
		Int("page_count", e.PageCount).
		Msg("extraction queued")
	return e, nil
}

// ExtractNow runs the extraction in the caller's goroutine, reporting each step
// to onProgress as well as persisting it.
func (s *extractionService) ExtractNow(ctx context.Context, input SubmitInput, onProgress extraction.ProgressFunc) (*domain.Extraction, error) {
	e, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	if cached := s.lookupCache(ctx, e); cached != nil {
		if err := s.upload(ctx, e, input.Content); err != nil {
			return nil, err
		}
		return s.createCompleted(ctx, e, cached)
	}

	if err := s.upload(ctx, e, input.Content); err != nil {
		return nil, err
	}
	e.Status = domain.ExtractionStatusProcessing
	e.Attempts = 1
	if err := s.create(ctx, e); err != nil {
		return nil, err
	}

	result, err := s.run(ctx, e, input.Content, onProgress)
	if err != nil {
		s.fail(context.WithoutCancel(ctx), e, err)
		return nil, err
	}
	if err := s.complete(context.WithoutCancel(ctx), e, result); err != nil {
		return nil, err
	}
	return e, nil
}

// Process runs a claimed extraction. Rate-limited runs go back to the queue
// while attempts remain; every other failure is final. The outcome is written
// even when ctx has expired, so a timed-out run never stays processing.
func (s *extractionService) Process(ctx context.Context, e *domain.Extraction, maxAttempts int) {
	log := s.log.With().Str("extraction_id", e.ID.String()).Int("attempt", e.Attempts).Logger()
	writeCtx := context.WithoutCancel(ctx)

	content, err := s.storage.Download(ctx, e.S3Bucket, e.S3Key)
	if err != nil {
		s.fail(writeCtx, e, fmt.Errorf("downloading document: %w", err))
		return
	}

	result, err := s.run(ctx, e, content, nil)
	if err != nil {
		var rlErr *llm.RateLimitError
		if errors.As(err, &rlErr) && e.Attempts < maxAttempts {
			retryAt := s.now().Add(rlErr.RetryAfter)
			msg := fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
			if qErr := s.repo.Requeue(writeCtx, e.ID, &retryAt, msg); qErr != nil {
				log.Error().Err(qErr).Msg("failed to requeue extraction")
				return
			}
			log.Warn().Time("retry_after", retryAt).Msg("extraction requeued after rate limit")
			return
		}
		s.fail(writeCtx, e, err)
		return
	}

	if err := s.complete(writeCtx, e, result); err != nil {
		log.Error().Err(err).Msg("failed to save extraction result")
	}
}

func (s *extractionService) run(ctx context.Context, e *domain.Extraction, content []byte, onProgress extraction.ProgressFunc) (*domain.MultiPromptResult, error) {
	progress := func(step, totalSteps int, stepName, stepDescription string) {
		err := s.repo.UpdateProgress(ctx, e.ID, domain.ExtractionProgress{
			CurrentStep:     step,
			TotalSteps:      totalSteps,
			CurrentStepName: stepName,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("extraction_id", e.ID.String()).Msg("failed to persist progress")
		}
		e.CurrentStep, e.TotalSteps, e.CurrentStepName = step, totalSteps, stepName
		if onProgress != nil {
			onProgress(step, totalSteps, stepName, stepDescription)
		}
	}

	return s.orchestrator.Run(ctx, extraction.Input{
		Document:     content,
		ContentType:  e.ContentType,
		DocumentType: e.DocumentType,
	}, progress)
}

func (s *extractionService) complete(ctx context.Context, e *domain.Extraction, result *domain.MultiPromptResult) error {
	if err := s.applyResult(e, result); err != nil {
		return err
	}
	if err := s.repo.Complete(ctx, e); err != nil {
		return fmt.Errorf("completing extraction: %w", err)
	}
	if err := s.cache.Set(ctx, e.FileHash, e.DocumentType, result); err != nil {
		s.log.Warn().Err(err).Str("extraction_id", e.ID.String()).Msg("failed to cache result")
	}
	s.log.Info().
		Str("extraction_id", e.ID.String()).
		Int("input_tokens", e.InputTokens).
		Int("output_tokens", e.OutputTokens).
		Int64("duration_ms", e.ProcessingTimeMs).
		Msg("extraction completed")
	return nil
}

// applyResult copies a finished run into e, including the required-field warnings.
func (s *extractionService) applyResult(e *domain.Extraction, result *domain.MultiPromptResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	warnings, err := json.Marshal(s.validator.Check(e.DocumentType, result.FinalResult.StructuredResult))
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	now := s.now()
	e.Status = domain.ExtractionStatusCompleted
	e.Result = resultJSON
	e.Warnings = warnings
	e.ErrorMessage = ""
	e.CurrentStep = result.TotalSteps
	e.TotalSteps = result.TotalSteps
	if n := len(result.Steps); n > 0 {
		e.CurrentStepName = result.Steps[n-1].StepName
	}
	e.CompletedAt = &now
	if !e.CacheHit {
		e.InputTokens = result.Metadata.TotalTokenUsage.Input
		e.OutputTokens = result.Metadata.TotalTokenUsage.Output
		e.ProcessingTimeMs = result.Metadata.TotalProcessingTimeMs
	}
	return nil
}

func (s *extractionService) fail(ctx context.Context, e *domain.Extraction, runErr error) {
	s.log.Error().Err(runErr).Str("extraction_id", e.ID.String()).Msg("extraction failed")
	e.Status = domain.ExtractionStatusFailed
	e.ErrorMessage = runErr.Error()
	if err := s.repo.UpdateStatus(ctx, e.ID, domain.ExtractionStatusFailed, e.ErrorMessage); err != nil {
		s.log.Error().Err(err).Str("extraction_id", e.ID.String()).Msg("failed to mark extraction failed")
	}
}

// prepare validates the upload and builds the extraction row without saving it.
func (s *extractionService) prepare(ctx context.Context, input SubmitInput) (*domain.Extraction, error) {
	if strings.TrimSpace(string(input.DocumentType)) == "" {
		return nil, domain.ErrMissingDocumentType
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if int64(len(input.Content)) > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}
	if len(input.Content) == 0 {
		return nil, domain.ErrInvalidDocument
	}

	detected, ok := domain.AllowedContentTypes[detectContentType(input.Content)]
	if !ok || detected != fileType {
		return nil, domain.ErrUnsupportedFileType
	}

	pages := 1
	if fileType == domain.FileTypePDF {
		n, err := pageCount(input.Content)
		if err != nil {
			s.log.Warn().Err(err).Str("file_name", input.FileName).Msg("pdf rejected")
			return nil, domain.ErrInvalidDocument
		}
		pages = n
	}

	if input.ImportProcessID != nil {
		if _, err := s.importRepo.GetByID(ctx, *input.ImportProcessID); err != nil {
			return nil, err
		}
	}

	sum := sha256.Sum256(input.Content)
	id := uuid.New()
	return &domain.Extraction{
		ID:              id,
		ImportProcessID: input.ImportProcessID,
		DocumentType:    input.DocumentType,
		FileName:        input.FileName,
		ContentType:     domain.AllowedFileTypes[fileType],
		FileSize:        int64(len(input.Content)),
		FileHash:        hex.EncodeToString(sum[:]),
		PageCount:       pages,
		S3Bucket:        s.cfg.Bucket,
		S3Key:           s3.ObjectKey(input.DocumentType, id, input.FileName),
		TotalSteps:      len(s.orchestrator.Catalog().Steps(input.DocumentType)),
	}, nil
}

func (s *extractionService) upload(ctx context.Context, e *domain.Extraction, content []byte) error {
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      e.S3Bucket,
		Key:         e.S3Key,
		Body:        bytes.NewReader(content),
		ContentType: e.ContentType,
		Size:        e.FileSize,
	})
	if err != nil {
		s.log.Error().Err(err).Str("extraction_id", e.ID.String()).Msg("document upload failed")
		return domain.ErrUploadFailed
	}
	return nil
}

// create saves the extraction row. When that fails the uploaded document has
// no owner, so it is removed from storage.
func (s *extractionService) create(ctx context.Context, e *domain.Extraction) error {
	err := s.repo.Create(ctx, e)
	if err == nil {
		return nil
	}
	if delErr := s.storage.Delete(context.WithoutCancel(ctx), e.S3Bucket, e.S3Key); delErr != nil {
		s.log.Error().Err(delErr).Str("s3_key", e.S3Key).Msg("failed to remove orphaned upload")
	}
	return fmt.Errorf("creating extraction: %w", err)
}

// lookupCache returns a cached result for e, or nil. Cache errors count as misses.
func (s *extractionService) lookupCache(ctx context.Context, e *domain.Extraction) *domain.MultiPromptResult {
	cached, err := s.cache.Get(ctx, e.FileHash, e.DocumentType)
	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("file_hash", e.FileHash).Msg("result cache lookup failed")
		}
		return nil
	}
	return cached
}

func (s *extractionService) createCompleted(ctx context.Context, e *domain.Extraction, cached *domain.MultiPromptResult) (*domain.Extraction, error) {
	e.CacheHit = true
	if err := s.applyResult(e, cached); err != nil {
		return nil, err
	}
	if err := s.create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("extraction_id", e.ID.String()).
		Str("file_hash", e.FileHash).
		Msg("extraction served from cache")
	return e, nil
}

func (s *extractionService) Get(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *extractionService) List(ctx context.Context, filter domain.ExtractionFilter, offset, limit int) ([]domain.Extraction, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

// UpdateSection replaces one section of a completed result with reviewed data.
// The section keeps its step metadata but its source becomes "manual"; a
// section the run left absent gets the metadata of the step that fills it.
func (s *extractionService) UpdateSection(ctx context.Context, id uuid.UUID, section domain.SectionName, data json.RawMessage) (*domain.Extraction, error) {
	normalized, err := extraction.NormalizeSection(section, data)
	if err != nil {
		return nil, err
	}

	e, result, err := s.completedResult(ctx, id)
	if err != nil {
		return nil, err
	}

	_, step, ok := s.orchestrator.Catalog().SectionRule(e.DocumentType, section)
	if !ok {
		return nil, domain.ErrSectionNotAllowed
	}

	updated, ok := result.FinalResult.StructuredResult[section]
	if !ok {
		updated.Metadata = domain.SectionMetadata{
			Step:            step.Step,
			StepName:        step.Name,
			StepDescription: step.Description,
		}
	}
	updated.Data = normalized
	updated.Source = manualEditSource
	result.FinalResult.StructuredResult = result.FinalResult.StructuredResult.With(section, updated)
	if mirrored, ok := extraction.MirroredSection(e.DocumentType); ok && mirrored == section {
		result.FinalResult.ExtractedData = normalized
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	warnings, err := json.Marshal(s.validator.Check(e.DocumentType, result.FinalResult.StructuredResult))
	if err != nil {
		return nil, fmt.Errorf("encoding warnings: %w", err)
	}
	if err := s.repo.UpdateResult(ctx, id, resultJSON, warnings); err != nil {
		return nil, err
	}

	s.log.Info().Str("extraction_id", id.String()).Str("section", string(section)).Msg("section edited")
	e.Result = resultJSON
	e.Warnings = warnings
	return e, nil
}

func (s *extractionService) Retry(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.ExtractionStatusFailed {
		return nil, domain.ErrExtractionNotRetryable
	}
	if err := s.repo.ResetForRetry(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info().Str("extraction_id", id.String()).Msg("extraction queued for retry")
	return s.repo.GetByID(ctx, id)
}

// Export renders one list or header section of a completed extraction.
func (s *extractionService) Export(ctx context.Context, id uuid.UUID, section domain.SectionName, format domain.ExportFormat) (*ExportOutput, error) {
	if format != domain.ExportFormatCSV && format != domain.ExportFormatXLSX {
		return nil, domain.ErrInvalidExportFormat
	}
	if _, ok := domain.SectionShapes[section]; !ok {
		return nil, domain.ErrUnknownSection
	}

	e, result, err := s.completedResult(ctx, id)
	if err != nil {
		return nil, err
	}
	sec, ok := result.FinalResult.StructuredResult[section]
	if !ok {
		return nil, domain.ErrSectionMissing
	}

	table, err := export.TableFromSection(section, sec.Data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, table, format, string(section)); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}
	return &ExportOutput{
		FileName:    export.BuildFilename(e.FileName, section, format, s.now()),
		ContentType: export.ContentType(format),
		Body:        buf.Bytes(),
	}, nil
}

func (s *extractionService) GetFileURL(ctx context.Context, id uuid.UUID) (string, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, e.S3Bucket, e.S3Key, s.cfg.PresignExpiry)
}

func (s *extractionService) completedResult(ctx context.Context, id uuid.UUID) (*domain.Extraction, *domain.MultiPromptResult, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.Status != domain.ExtractionStatusCompleted || len(e.Result) == 0 {
		return nil, nil, domain.ErrExtractionNotCompleted
	}
	var result domain.MultiPromptResult
	if err := json.Unmarshal(e.Result, &result); err != nil {
		return nil, nil, fmt.Errorf("decoding stored result: %w", err)
	}
	if result.FinalResult.StructuredResult == nil {
		result.FinalResult.StructuredResult = domain.StructuredResult{}
	}
	return e, &result, nil
}

func detectContentType(content []byte) string {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head)
}

// pageCount opens a PDF and returns its number of pages. The reader panics on
// some malformed inputs, so panics are turned into errors.
func pageCount(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	n = r.NumPage()
	if n == 0 {
		return 0, errors.New("pdf has no pages")
	}
	return n, nil
}
