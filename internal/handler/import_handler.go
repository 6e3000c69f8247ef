package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ingestdesk/internal/service"
)

// ImportHandler handles the CRM case import console.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Submit handles POST /api/v1/imports/cases. The body carries the pasted
// text as-is; separators are handled by the service.
func (h *ImportHandler) Submit(c *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "input is required")
		return
	}

	result, err := h.importService.Submit(c.Request.Context(), req.Input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// Recent handles GET /api/v1/imports/cases
func (h *ImportHandler) Recent(c *gin.Context) {
	window, err := h.importService.Recent(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, window)
}

// Export handles GET /api/v1/imports/export
func (h *ImportHandler) Export(c *gin.Context) {
	export, err := h.importService.Export(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	sendExport(c, export)
}
