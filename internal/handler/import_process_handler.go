package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedocs/internal/service"
)

// ImportProcessHandler handles import process endpoints.
type ImportProcessHandler struct {
	svc service.ImportProcessService
}

// NewImportProcessHandler creates a new ImportProcessHandler.
func NewImportProcessHandler(svc service.ImportProcessService) *ImportProcessHandler {
	return &ImportProcessHandler{svc: svc}
}

// Create handles POST /api/v1/import-processes
// @Summary Create an import process
// @Tags import-processes
// @Accept json
// @Produce json
// @Param request body CreateImportProcessRequest true "Import process"
// @Success 201 {object} Response{data=domain.ImportProcess} "Import process created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "Reference already exists"
// @Router /import-processes [post]
func (h *ImportProcessHandler) Create(c *gin.Context) {
	var req CreateImportProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "reference is required")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateImportProcessInput{
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, p)
}

// List handles GET /api/v1/import-processes
// @Summary List import processes
// @Tags import-processes
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} PaginatedResponse{data=[]domain.ImportProcess} "Import processes"
// @Router /import-processes [get]
func (h *ImportProcessHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	items, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/import-processes/:id
// @Summary Get an import process with its extractions
// @Tags import-processes
// @Produce json
// @Param id path string true "Import process ID (UUID)"
// @Success 200 {object} Response{data=domain.ImportProcessDetail} "Import process"
// @Failure 404 {object} ErrorResponseBody "Import process not found"
// @Router /import-processes/{id} [get]
func (h *ImportProcessHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// LinkExtraction handles POST /api/v1/import-processes/:id/extractions/:extractionId
// @Summary Link an extraction to an import process
// @Tags import-processes
// @Produce json
// @Param id path string true "Import process ID (UUID)"
// @Param extractionId path string true "Extraction ID (UUID)"
// @Success 200 {object} Response{data=domain.Extraction} "Linked extraction"
// @Failure 404 {object} ErrorResponseBody "Import process or extraction not found"
// @Router /import-processes/{id}/extractions/{extractionId} [post]
func (h *ImportProcessHandler) LinkExtraction(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}
	extractionID, ok := parseID(c, "extractionId")
	if !ok {
		return
	}

	e, err := h.svc.LinkExtraction(c.Request.Context(), processID, extractionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}
