package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradedocs/internal/domain"
	"tradedocs/internal/service"
)

// ProgressEvent is the payload of the SSE "progress" event.
type ProgressEvent struct {
	Step            int    `json:"step"`
	TotalSteps      int    `json:"totalSteps"`
	StepName        string `json:"stepName"`
	StepDescription string `json:"stepDescription"`
}

// ExtractionHandler handles extraction endpoints.
type ExtractionHandler struct {
	svc            service.ExtractionService
	maxUploadBytes int64
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(svc service.ExtractionService, maxUploadBytes int64) *ExtractionHandler {
	return &ExtractionHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// Submit handles POST /api/v1/extractions
// @Summary Submit a document for extraction
// @Description Upload a document and queue it for multi-step extraction. A document already extracted with the same type completes immediately from the result cache.
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (pdf, jpg, png)"
// @Param document_type formData string true "Document type" Enums(proforma_invoice, commercial_invoice, packing_list, swift, di, numerario, nota_fiscal)
// @Param import_process_id formData string false "Import process ID (UUID)"
// @Success 202 {object} Response{data=domain.Extraction} "Extraction queued"
// @Failure 400 {object} ErrorResponseBody "Invalid upload"
// @Failure 404 {object} ErrorResponseBody "Import process not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /extractions [post]
func (h *ExtractionHandler) Submit(c *gin.Context) {
	input, ok := h.readSubmitInput(c)
	if !ok {
		return
	}

	e, err := h.svc.Submit(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, e)
}

// Stream handles POST /api/v1/extractions/stream. The extraction runs within
// the request; progress, then result or error, are sent as server-sent events.
// @Summary Extract a document with live progress
// @Description Run the extraction within the request. Sends "progress" events before each step, then one "result" or "error" event.
// @Tags extractions
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param file formData file true "Document (pdf, jpg, png)"
// @Param document_type formData string true "Document type"
// @Param import_process_id formData string false "Import process ID (UUID)"
// @Success 200 {object} ProgressEvent "Event stream"
// @Failure 400 {object} ErrorResponseBody "Invalid upload"
// @Router /extractions/stream [post]
func (h *ExtractionHandler) Stream(c *gin.Context) {
	input, ok := h.readSubmitInput(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	onProgress := func(step, totalSteps int, stepName, stepDescription string) {
		c.SSEvent("progress", ProgressEvent{
			Step:            step,
			TotalSteps:      totalSteps,
			StepName:        stepName,
			StepDescription: stepDescription,
		})
		c.Writer.Flush()
	}

	e, err := h.svc.ExtractNow(c.Request.Context(), input, onProgress)
	if err != nil {
		_, code, msg := MapDomainError(err)
		c.SSEvent("error", APIError{Code: code, Message: msg})
		c.Writer.Flush()
		return
	}
	c.SSEvent("result", e)
	c.Writer.Flush()
}

// List handles GET /api/v1/extractions
// @Summary List extractions
// @Tags extractions
// @Produce json
// @Param document_type query string false "Filter by document type"
// @Param status query string false "Filter by status" Enums(queued, processing, completed, failed)
// @Param import_process_id query string false "Filter by import process ID (UUID)"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} PaginatedResponse{data=[]domain.Extraction} "Extractions"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Router /extractions [get]
func (h *ExtractionHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	filter := domain.ExtractionFilter{
		DocumentType: domain.DocumentType(c.Query("document_type")),
		Status:       domain.ExtractionStatus(c.Query("status")),
	}
	if pidStr := c.Query("import_process_id"); pidStr != "" {
		pid, err := uuid.Parse(pidStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import_process_id")
			return
		}
		filter.ImportProcessID = &pid
	}

	items, total, err := h.svc.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/extractions/:id
// @Summary Get extraction by ID
// @Description Get an extraction with its progress, result and required-field warnings
// @Tags extractions
// @Produce json
// @Param id path string true "Extraction ID (UUID)"
// @Success 200 {object} Response{data=domain.Extraction} "Extraction"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Extraction not found"
// @Router /extractions/{id} [get]
func (h *ExtractionHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	e, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// UpdateSection handles PUT /api/v1/extractions/:id/sections/:section. The
// request body is the new section data.
// @Summary Edit a result section
// @Description Replace one section of a completed result with reviewed data. The section source becomes "manual".
// @Tags extractions
// @Accept json
// @Produce json
// @Param id path string true "Extraction ID (UUID)"
// @Param section path string true "Section" Enums(header, items, containers, taxInfo, diInfo, dispositionExplanation)
// @Param request body SectionUpdateBody true "Section data"
// @Success 200 {object} Response{data=domain.Extraction} "Updated extraction"
// @Failure 400 {object} ErrorResponseBody "Invalid section or data"
// @Failure 404 {object} ErrorResponseBody "Extraction not found"
// @Failure 409 {object} ErrorResponseBody "Extraction not completed"
// @Router /extractions/{id}/sections/{section} [put]
func (h *ExtractionHandler) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be the section data")
		return
	}

	e, err := h.svc.UpdateSection(c.Request.Context(), id, domain.SectionName(c.Param("section")), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// Retry handles POST /api/v1/extractions/:id/retry
// @Summary Retry a failed extraction
// @Tags extractions
// @Produce json
// @Param id path string true "Extraction ID (UUID)"
// @Success 202 {object} Response{data=domain.Extraction} "Extraction queued again"
// @Failure 404 {object} ErrorResponseBody "Extraction not found"
// @Failure 409 {object} ErrorResponseBody "Extraction is not failed"
// @Router /extractions/{id}/retry [post]
func (h *ExtractionHandler) Retry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	e, err := h.svc.Retry(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, e)
}

// Export handles GET /api/v1/extractions/:id/export?section=items&format=csv
// @Summary Export a section as a table
// @Tags extractions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Extraction ID (UUID)"
// @Param section query string false "Section" default(items)
// @Param format query string false "Format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Exported table"
// @Failure 400 {object} ErrorResponseBody "Invalid section or format"
// @Failure 404 {object} ErrorResponseBody "Extraction or section not found"
// @Failure 409 {object} ErrorResponseBody "Extraction not completed"
// @Router /extractions/{id}/export [get]
func (h *ExtractionHandler) Export(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	section := domain.SectionName(c.DefaultQuery("section", string(domain.SectionItems)))
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))

	out, err := h.svc.Export(c.Request.Context(), id, section, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

// FileURL handles GET /api/v1/extractions/:id/file
// @Summary Get the original document URL
// @Tags extractions
// @Produce json
// @Param id path string true "Extraction ID (UUID)"
// @Success 200 {object} Response{data=FileURLResponse} "Presigned URL"
// @Failure 404 {object} ErrorResponseBody "Extraction not found"
// @Router /extractions/{id}/file [get]
func (h *ExtractionHandler) FileURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.svc.GetFileURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, FileURLResponse{URL: url})
}

// readSubmitInput reads the multipart upload. It writes the error response and
// returns false when the request is unusable.
func (h *ExtractionHandler) readSubmitInput(c *gin.Context) (service.SubmitInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.SubmitInput{}, false
	}
	defer func() { _ = file.Close() }()

	var r io.Reader = file
	if h.maxUploadBytes > 0 {
		if header.Size > h.maxUploadBytes {
			HandleError(c, domain.ErrFileTooLarge)
			return service.SubmitInput{}, false
		}
		r = io.LimitReader(file, h.maxUploadBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "file could not be read")
		return service.SubmitInput{}, false
	}

	input := service.SubmitInput{
		DocumentType: domain.DocumentType(strings.TrimSpace(c.PostForm("document_type"))),
		FileName:     header.Filename,
		Content:      content,
	}
	if pidStr := c.PostForm("import_process_id"); pidStr != "" {
		pid, err := uuid.Parse(pidStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import_process_id")
			return service.SubmitInput{}, false
		}
		input.ImportProcessID = &pid
	}
	return input, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
