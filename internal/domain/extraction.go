package domain

import (
	"encoding/json"
	"fmt"
)

// PromptStep is one statically configured model call of a document type's catalog.
// Steps run in ascending Step order; Step is 1-indexed and contiguous.
type PromptStep struct {
	Step               int    `json:"step"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PromptText         string `json:"-"`
	ExpectsPriorOutput bool   `json:"expectsPriorOutput"`
}

// TokenUsage counts model tokens consumed.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Add returns the element-wise sum of u and o.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{Input: u.Input + o.Input, Output: u.Output + o.Output}
}

// StepResult records one executed step. RawResult holds the sanitized model text.
type StepResult struct {
	Step             int        `json:"step"`
	StepName         string     `json:"stepName"`
	StepDescription  string     `json:"stepDescription"`
	RawResult        string     `json:"rawResult"`
	TokenUsage       TokenUsage `json:"tokenUsage"`
	ProcessingTimeMs int64      `json:"processingTimeMs"`
	Model            string     `json:"model,omitempty"`
}

// SourceID returns the provenance identifier stored on sections produced by this step.
func (r StepResult) SourceID() string {
	return fmt.Sprintf("step_%d", r.Step)
}

// SectionMetadata describes which step produced a section.
type SectionMetadata struct {
	Step             int    `json:"step"`
	StepName         string `json:"stepName"`
	StepDescription  string `json:"stepDescription"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// Section is one populated slot of a StructuredResult.
type Section struct {
	Data     json.RawMessage `json:"data"`
	Source   string          `json:"source"`
	Metadata SectionMetadata `json:"metadata"`
}

// NewSection builds a section carrying provenance from the producing step.
func NewSection(data json.RawMessage, from StepResult) Section {
	return Section{
		Data:   data,
		Source: from.SourceID(),
		Metadata: SectionMetadata{
			Step:             from.Step,
			StepName:         from.StepName,
			StepDescription:  from.StepDescription,
			ProcessingTimeMs: from.ProcessingTimeMs,
		},
	}
}

// StructuredResult maps section names to their data. Treat it as a value:
// With returns a new map and never mutates the receiver.
type StructuredResult map[SectionName]Section

// With returns a copy of r with name set to s.
func (r StructuredResult) With(name SectionName, s Section) StructuredResult {
	out := make(StructuredResult, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[name] = s
	return out
}

// Has reports whether the section is populated.
func (r StructuredResult) Has(name SectionName) bool {
	_, ok := r[name]
	return ok
}

// FinalResult is the assembled output of a run.
type FinalResult struct {
	RawText          string           `json:"rawText"`
	ExtractedData    json.RawMessage  `json:"extractedData"`
	StructuredResult StructuredResult `json:"structuredResult"`
}

// RunMetadata carries run-level totals.
type RunMetadata struct {
	TotalProcessingTimeMs int64      `json:"totalProcessingTimeMs"`
	TotalTokenUsage       TokenUsage `json:"totalTokenUsage"`
}

// MultiPromptResult is returned once per successful run and never mutated afterwards,
// except by explicit section edits performed on a persisted copy.
type MultiPromptResult struct {
	Success      bool         `json:"success"`
	DocumentType DocumentType `json:"documentType"`
	TotalSteps   int          `json:"totalSteps"`
	Steps        []StepResult `json:"steps"`
	FinalResult  FinalResult  `json:"finalResult"`
	Metadata     RunMetadata  `json:"metadata"`
}

// FieldWarning reports a required field that the model did not return.
type FieldWarning struct {
	Section SectionName `json:"section"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}
