package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ingestdesk/internal/prompt"
	"ingestdesk/internal/service"
)

// PromptHandler handles the per-project extraction prompt endpoints.
type PromptHandler struct {
	promptService service.PromptService
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(promptService service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// Get handles GET /api/v1/projects/:id/prompt
func (h *PromptHandler) Get(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	view, err := h.promptService.Get(c.Request.Context(), projectID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Save handles PUT /api/v1/projects/:id/prompt
func (h *PromptHandler) Save(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req struct {
		PromptText string         `json:"prompt_text"`
		Schema     *prompt.Schema `json:"schema"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "prompt_text is required; schema must be a JSON object")
		return
	}

	view, err := h.promptService.Save(c.Request.Context(), projectID, req.PromptText, req.Schema)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Generate handles POST /api/v1/projects/:id/prompt/generate. The draft is
// not saved.
func (h *PromptHandler) Generate(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req struct {
		Request string `json:"request"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request is required")
		return
	}

	draft, err := h.promptService.Generate(c.Request.Context(), projectID, req.Request)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// Lock handles POST /api/v1/projects/:id/prompt/lock
func (h *PromptHandler) Lock(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	h.promptService.Lock(projectID)
	RespondOK(c, gin.H{"locked": true})
}

// Unlock handles DELETE /api/v1/projects/:id/prompt/lock
func (h *PromptHandler) Unlock(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	h.promptService.Unlock(projectID)
	RespondOK(c, gin.H{"locked": false})
}
