package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ingestdesk/internal/service"
)

// DocumentHandler handles document upload, download and processing endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// List handles GET /api/v1/projects/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	docs, err := h.documentService.List(c.Request.Context(), projectID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// Upload handles POST /api/v1/projects/:id/documents (multipart field "files").
// Partial failures answer 502 with the failing files in error.details; the
// files that succeeded stay uploaded.
func (h *DocumentHandler) Upload(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one file is required in 'files' field")
		return
	}

	inputs := make([]service.UploadFileInput, 0, len(fileHeaders))
	openFiles := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
			return
		}
		openFiles = append(openFiles, f)
		inputs = append(inputs, service.UploadFileInput{
			FileName:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	docs, err := h.documentService.UploadBatch(c.Request.Context(), projectID, inputs)
	if err != nil {
		var batchErr *service.BatchUploadError
		if errors.As(err, &batchErr) {
			log.Printf("DocumentHandler.Upload: project %s: %v", projectID, err)
			respondBatchError(c, batchErr, docs)
			return
		}
		HandleError(c, err)
		return
	}
	RespondCreated(c, docs)
}

// Download handles GET /api/v1/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	body, doc, err := h.documentService.Download(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", contentDisposition(doc.FileName))
	c.Header("Content-Type", "application/octet-stream")
	if doc.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Printf("DocumentHandler.Download: streaming %s: %v", doc.ID, err)
	}
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// Process handles POST /api/v1/projects/:id/process
func (h *DocumentHandler) Process(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	trigger, err := h.documentService.TriggerProcessing(c.Request.Context(), projectID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: trigger})
}
