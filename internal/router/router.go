package router

import (
	"github.com/gin-gonic/gin"

	"ingestdesk/internal/handler"
	"ingestdesk/internal/middleware"
)

// Handlers groups every API handler. Backend-dependent handlers are nil when
// no database is configured.
type Handlers struct {
	Health   *handler.HealthHandler
	Projects *handler.ProjectHandler
	Docs     *handler.DocumentHandler
	Prompts  *handler.PromptHandler
	Results  *handler.ResultHandler
	Imports  *handler.ImportHandler
}

// Setup configures the Gin engine with all routes and middleware. When the
// backend handlers are missing, every /api/v1 route answers 503 while the
// health checks stay up.
func Setup(h Handlers, verifier *middleware.TokenVerifier, corsOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	if h.Projects == nil {
		v1.Any("/*path", handler.BackendUnavailable)
		return r
	}

	v1.Use(middleware.AuthMiddleware(verifier))

	projects := v1.Group("/projects")
	projects.GET("", h.Projects.List)
	projects.POST("", h.Projects.Create)
	projects.PUT("/:id", h.Projects.Rename)
	projects.DELETE("/:id", h.Projects.Delete)

	projects.GET("/:id/documents", h.Docs.List)
	projects.POST("/:id/documents", h.Docs.Upload)
	projects.POST("/:id/process", h.Docs.Process)

	projects.GET("/:id/prompt", h.Prompts.Get)
	projects.PUT("/:id/prompt", h.Prompts.Save)
	projects.POST("/:id/prompt/generate", h.Prompts.Generate)
	projects.POST("/:id/prompt/lock", h.Prompts.Lock)
	projects.DELETE("/:id/prompt/lock", h.Prompts.Unlock)

	projects.GET("/:id/results/export", h.Results.Export)

	documents := v1.Group("/documents")
	documents.GET("/:id/download", h.Docs.Download)
	documents.DELETE("/:id", h.Docs.Delete)

	results := v1.Group("/results")
	results.GET("", h.Results.Recent)
	results.GET("/stream", h.Results.Stream)

	imports := v1.Group("/imports")
	imports.GET("/cases", h.Imports.Recent)
	imports.POST("/cases", h.Imports.Submit)
	imports.GET("/export", h.Imports.Export)

	return r
}
