package handler

import (
	"github.com/gin-gonic/gin"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
)

// DocumentTypeInfo describes a supported document type and its steps.
type DocumentTypeInfo struct {
	DocumentType domain.DocumentType `json:"documentType"`
	TotalSteps   int                 `json:"totalSteps"`
	Steps        []domain.PromptStep `json:"steps"`
}

// DocumentTypeHandler exposes the step catalog.
type DocumentTypeHandler struct {
	catalog *extraction.Catalog
}

// NewDocumentTypeHandler creates a new DocumentTypeHandler.
func NewDocumentTypeHandler(catalog *extraction.Catalog) *DocumentTypeHandler {
	return &DocumentTypeHandler{catalog: catalog}
}

// List handles GET /api/v1/document-types
// @Summary List document types
// @Description List the supported document types with their extraction steps
// @Tags document-types
// @Produce json
// @Success 200 {object} Response{data=[]DocumentTypeInfo} "Document types"
// @Router /document-types [get]
func (h *DocumentTypeHandler) List(c *gin.Context) {
	types := make([]DocumentTypeInfo, 0, len(domain.KnownDocumentTypes))
	for _, t := range domain.KnownDocumentTypes {
		steps := h.catalog.Steps(t)
		types = append(types, DocumentTypeInfo{DocumentType: t, TotalSteps: len(steps), Steps: steps})
	}
	RespondOK(c, types)
}
