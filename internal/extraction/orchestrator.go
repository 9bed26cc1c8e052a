package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tradedocs/internal/domain"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
)

const (
	defaultContentType = "application/pdf"
	priorOutputLabel   = "Output of the previous step:"
)

// ProgressFunc is notified synchronously before each step's model call.
type ProgressFunc func(step, totalSteps int, stepName, stepDescription string)

// Input is the document a run extracts from.
type Input struct {
	Document     []byte
	ContentType  string
	DocumentType domain.DocumentType
}

// StepError is returned when a step's model call fails. The run is abandoned;
// no partial result is produced.
type StepError struct {
	Step     int
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Orchestrator drives a document through its step catalog. It keeps no state
// between runs, so one instance serves concurrent runs.
type Orchestrator struct {
	client    port.ModelClient
	catalog   *Catalog
	assembler *Assembler
	log       zerolog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil catalog selects the built-in one.
func NewOrchestrator(client port.ModelClient, catalog *Catalog) *Orchestrator {
	if catalog == nil {
		catalog = NewCatalog()
	}
	log := logger.WithComponent("extraction")
	return &Orchestrator{
		client:    client,
		catalog:   catalog,
		assembler: NewAssembler(log),
		log:       log,
	}
}

// Catalog returns the step catalog used by the orchestrator.
func (o *Orchestrator) Catalog() *Catalog {
	return o.catalog
}

// Run executes every step of the document type's catalog in order and
// assembles the result. Model call failures and context cancellation abort the
// run with a *StepError; unparseable step outputs only drop their section.
func (o *Orchestrator) Run(ctx context.Context, in Input, onProgress ProgressFunc) (*domain.MultiPromptResult, error) {
	start := time.Now()

	steps := o.catalog.Steps(in.DocumentType)
	totalSteps := len(steps)
	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	log := o.log.With().Str("document_type", string(in.DocumentType)).Int("total_steps", totalSteps).Logger()
	if !o.catalog.Has(in.DocumentType) {
		log.Warn().Msg("no specialized catalog, using generic step")
	}
	log.Info().Int("document_bytes", len(in.Document)).Msg("extraction started")

	results := make([]domain.StepResult, 0, totalSteps)
	var totals domain.TokenUsage
	previousOutput := ""

	for _, step := range steps {
		if onProgress != nil {
			onProgress(step.Step, totalSteps, step.Name, step.Description)
		}
		if err := ctx.Err(); err != nil {
			return nil, &StepError{Step: step.Step, StepName: step.Name, Err: err}
		}

		stepStart := time.Now()
		resp, err := o.client.Invoke(ctx, port.ModelRequest{
			Prompt:      buildPrompt(step, previousOutput),
			Document:    in.Document,
			ContentType: contentType,
		})
		if err == nil && resp == nil {
			err = errors.New("model returned no response")
		}
		if err != nil {
			log.Error().Err(err).Int("step", step.Step).Str("step_name", step.Name).Msg("model call failed")
			return nil, &StepError{Step: step.Step, StepName: step.Name, Err: err}
		}

		cleaned := Sanitize(resp.Text)
		usage := domain.TokenUsage{Input: resp.InputTokens, Output: resp.OutputTokens}
		result := domain.StepResult{
			Step:             step.Step,
			StepName:         step.Name,
			StepDescription:  step.Description,
			RawResult:        cleaned,
			TokenUsage:       usage,
			ProcessingTimeMs: time.Since(stepStart).Milliseconds(),
			Model:            resp.Model,
		}
		results = append(results, result)
		previousOutput = cleaned
		totals = totals.Add(usage)

		log.Debug().
			Int("step", step.Step).
			Str("step_name", step.Name).
			Int("input_tokens", usage.Input).
			Int("output_tokens", usage.Output).
			Int64("duration_ms", result.ProcessingTimeMs).
			Msg("step completed")
	}

	assembled := o.assembler.Assemble(in.DocumentType, results)
	elapsed := time.Since(start).Milliseconds()

	log.Info().
		Int("sections", len(assembled.StructuredResult)).
		Int("input_tokens", totals.Input).
		Int("output_tokens", totals.Output).
		Int64("duration_ms", elapsed).
		Msg("extraction finished")

	return &domain.MultiPromptResult{
		Success:      true,
		DocumentType: in.DocumentType,
		TotalSteps:   totalSteps,
		Steps:        results,
		FinalResult: domain.FinalResult{
			RawText:          assembled.RawText,
			ExtractedData:    assembled.ExtractedData,
			StructuredResult: assembled.StructuredResult,
		},
		Metadata: domain.RunMetadata{
			TotalProcessingTimeMs: elapsed,
			TotalTokenUsage:       totals,
		},
	}, nil
}

func buildPrompt(step domain.PromptStep, previousOutput string) string {
	if !step.ExpectsPriorOutput || previousOutput == "" {
		return step.PromptText
	}
	return step.PromptText + "\n\n" + priorOutputLabel + "\n" + previousOutput
}
