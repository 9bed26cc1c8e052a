package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
	"tradedocs/internal/llm"
	"tradedocs/internal/logger"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rlErr *llm.RateLimitError
	var stepErr *extraction.StepError

	switch {
	case errors.As(err, &rlErr):
		return http.StatusTooManyRequests, "RATE_LIMITED", "model provider rate limit reached; retry later"
	case errors.As(err, &stepErr):
		return http.StatusBadGateway, "EXTRACTION_FAILED", stepErr.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrExtractionNotFound):
		return http.StatusNotFound, "EXTRACTION_NOT_FOUND", "extraction not found"
	case errors.Is(err, domain.ErrImportProcessNotFound):
		return http.StatusNotFound, "IMPORT_PROCESS_NOT_FOUND", "import process not found"
	case errors.Is(err, domain.ErrMissingDocumentType):
		return http.StatusBadRequest, "MISSING_DOCUMENT_TYPE", "document_type is required"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", "document could not be read"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrExtractionNotCompleted):
		return http.StatusConflict, "EXTRACTION_NOT_COMPLETED", "extraction has not completed"
	case errors.Is(err, domain.ErrExtractionNotRetryable):
		return http.StatusConflict, "EXTRACTION_NOT_RETRYABLE", "only failed extractions can be retried"
	case errors.Is(err, domain.ErrDuplicateImportRef):
		return http.StatusConflict, "DUPLICATE_REFERENCE", "import process reference already exists"
	case errors.Is(err, domain.ErrMissingReference):
		return http.StatusBadRequest, "MISSING_REFERENCE", "reference is required"
	case errors.Is(err, domain.ErrUnknownSection):
		return http.StatusBadRequest, "UNKNOWN_SECTION", "unknown section; allowed: header, items, containers, taxInfo, diInfo, dispositionExplanation"
	case errors.Is(err, domain.ErrInvalidSectionData):
		return http.StatusBadRequest, "INVALID_SECTION_DATA", "section data does not match expected shape"
	case errors.Is(err, domain.ErrSectionNotAllowed):
		return http.StatusBadRequest, "SECTION_NOT_ALLOWED", "section is not produced for this document type"
	case errors.Is(err, domain.ErrSectionMissing):
		return http.StatusNotFound, "SECTION_MISSING", "section is not present in the extraction result"
	case errors.Is(err, domain.ErrSectionNotExportable):
		return http.StatusBadRequest, "SECTION_NOT_EXPORTABLE", "section cannot be exported as a table"
	case errors.Is(err, domain.ErrInvalidExportFormat):
		return http.StatusBadRequest, "INVALID_FORMAT", "unsupported export format; allowed: csv, xlsx"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID := c.GetString("request_id")
		log := logger.WithRequestID(requestID)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
	}
	var rlErr *llm.RateLimitError
	if errors.As(err, &rlErr) {
		c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
