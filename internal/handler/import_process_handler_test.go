package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradedocs/internal/domain"
	"tradedocs/internal/handler"
	"tradedocs/internal/service"
	"tradedocs/mocks"
)

func TestImportProcessHandler_Create(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)

	svc.On("Create", mock.Anything, service.CreateImportProcessInput{Reference: "IMP-1", Description: "pumps"}).
		Return(&domain.ImportProcess{ID: uuid.New(), Reference: "IMP-1"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/import-processes",
		strings.NewReader(`{"reference":"IMP-1","description":"pumps"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestImportProcessHandler_Create_MissingReference(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", strings.NewReader(`{"description":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportProcessHandler_Create_Duplicate(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateImportRef)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reference":"IMP-1"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_REFERENCE", decodeResponse(t, w).Error.Code)
}

func TestImportProcessHandler_List(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)
	svc.On("List", mock.Anything, 0, 20).Return([]domain.ImportProcess{{ID: uuid.New()}}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?limit=500", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeResponse(t, w).Meta.Total)
}

func TestImportProcessHandler_GetByID(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&domain.ImportProcessDetail{
		ImportProcess: domain.ImportProcess{ID: id, Reference: "IMP-1"},
		Extractions:   []domain.Extraction{{ID: uuid.New()}},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"extractions":[`)
	assert.Contains(t, w.Body.String(), `"reference":"IMP-1"`)
}

func TestImportProcessHandler_LinkExtraction(t *testing.T) {
	svc := new(mocks.MockImportProcessService)
	h := handler.NewImportProcessHandler(svc)
	processID := uuid.New()
	extractionID := uuid.New()
	svc.On("LinkExtraction", mock.Anything, processID, extractionID).Return(nil, domain.ErrImportProcessNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{
		{Key: "id", Value: processID.String()},
		{Key: "extractionId", Value: extractionID.String()},
	}

	h.LinkExtraction(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "IMPORT_PROCESS_NOT_FOUND", decodeResponse(t, w).Error.Code)
}
