package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Extraction is one persisted document-processing run and the file it was run on.
type Extraction struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	ImportProcessID  *uuid.UUID       `db:"import_process_id" json:"import_process_id"`
	DocumentType     DocumentType     `db:"document_type" json:"document_type"`
	FileName         string           `db:"file_name" json:"file_name"`
	ContentType      string           `db:"content_type" json:"content_type"`
	FileSize         int64            `db:"file_size" json:"file_size"`
	FileHash         string           `db:"file_hash" json:"file_hash"`
	PageCount        int              `db:"page_count" json:"page_count"`
	S3Bucket         string           `db:"s3_bucket" json:"-"`
	S3Key            string           `db:"s3_key" json:"-"`
	Status           ExtractionStatus `db:"status" json:"status"`
	CurrentStep      int              `db:"current_step" json:"current_step"`
	TotalSteps       int              `db:"total_steps" json:"total_steps"`
	CurrentStepName  string           `db:"current_step_name" json:"current_step_name"`
	Result           json.RawMessage  `db:"result" json:"result"`
	Warnings         json.RawMessage  `db:"warnings" json:"warnings"`
	ErrorMessage     string           `db:"error_message" json:"error_message"`
	Attempts         int              `db:"attempts" json:"attempts"`
	RetryAfter       *time.Time       `db:"retry_after" json:"retry_after,omitempty"`
	CacheHit         bool             `db:"cache_hit" json:"cache_hit"`
	InputTokens      int              `db:"input_tokens" json:"input_tokens"`
	OutputTokens     int              `db:"output_tokens" json:"output_tokens"`
	ProcessingTimeMs int64            `db:"processing_time_ms" json:"processing_time_ms"`
	CompletedAt      *time.Time       `db:"completed_at" json:"completed_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ExtractionProgress is the progress snapshot written between steps.
type ExtractionProgress struct {
	CurrentStep     int
	TotalSteps      int
	CurrentStepName string
}

// ExtractionFilter narrows extraction listings.
type ExtractionFilter struct {
	DocumentType    DocumentType
	Status          ExtractionStatus
	ImportProcessID *uuid.UUID
}

// ImportProcess groups the paperwork of one import shipment.
type ImportProcess struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	Reference   string              `db:"reference" json:"reference"`
	Description string              `db:"description" json:"description"`
	Status      ImportProcessStatus `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// ImportProcessDetail is an import process together with its linked extractions.
type ImportProcessDetail struct {
	ImportProcess
	Extractions []Extraction `json:"extractions"`
}
