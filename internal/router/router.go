package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tradedocs/docs"
	"tradedocs/internal/handler"
	"tradedocs/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health        *handler.HealthHandler
	DocumentType  *handler.DocumentTypeHandler
	Extraction    *handler.ExtractionHandler
	ImportProcess *handler.ImportProcessHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	v1.GET("/document-types", h.DocumentType.List)

	extractions := v1.Group("/extractions")
	extractions.POST("", h.Extraction.Submit)
	extractions.POST("/stream", h.Extraction.Stream)
	extractions.GET("", h.Extraction.List)
	extractions.GET("/:id", h.Extraction.GetByID)
	extractions.PUT("/:id/sections/:section", h.Extraction.UpdateSection)
	extractions.POST("/:id/retry", h.Extraction.Retry)
	extractions.GET("/:id/export", h.Extraction.Export)
	extractions.GET("/:id/file", h.Extraction.FileURL)

	processes := v1.Group("/import-processes")
	processes.POST("", h.ImportProcess.Create)
	processes.GET("", h.ImportProcess.List)
	processes.GET("/:id", h.ImportProcess.GetByID)
	processes.POST("/:id/extractions/:extractionId", h.ImportProcess.LinkExtraction)

	return r
}
