package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ingestdesk/internal/service"
)

// ProjectHandler handles project management endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, projects)
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, project)
}

// Rename handles PUT /api/v1/projects/:id
func (h *ProjectHandler) Rename(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	project, err := h.projectService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, project)
}

// Delete handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "project deleted"})
}
