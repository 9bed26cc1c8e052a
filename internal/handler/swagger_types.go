package handler

// Swagger type definitions for API documentation.
// These types only describe payloads; handlers keep using the envelope helpers.

// --- Request Types ---

// CreateImportProcessRequest represents the create import process request body.
type CreateImportProcessRequest struct {
	Reference   string `json:"reference" binding:"required" example:"IMP-2024-0042"`
	Description string `json:"description" example:"Pumps from Shanghai, vessel MSC Aurora"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// FileURLResponse carries a presigned URL for the original document.
type FileURLResponse struct {
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/extractions/di/...?X-Amz-Signature=..."`
}

// SectionUpdateBody documents the section edit body: an object, an array or a
// JSON string depending on the section.
type SectionUpdateBody map[string]interface{}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// PaginatedResponse wraps a successful list response.
type PaginatedResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Meta    PagMeta     `json:"meta"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}
