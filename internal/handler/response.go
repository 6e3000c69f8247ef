package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/middleware"
	"ingestdesk/internal/prompt"
	"ingestdesk/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateLimited *prompt.RateLimitError
	var batchErr *service.BatchUploadError

	switch {
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", err.Error()
	case errors.As(err, &batchErr):
		return http.StatusBadGateway, "UPLOAD_PARTIAL_FAILURE", err.Error()
	case errors.Is(err, domain.ErrBackendNotConfigured):
		return http.StatusServiceUnavailable, "BACKEND_NOT_CONFIGURED", "backend credentials are not configured"
	case errors.Is(err, domain.ErrGeneratorNotConfigured):
		return http.StatusServiceUnavailable, "GENERATOR_NOT_CONFIGURED", "schema generator API key is not configured"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND", "project not found"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrEmptyProjectName):
		return http.StatusBadRequest, "INVALID_NAME", "project name is required"
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "MISSING_FILES", "at least one file is required in 'files' field"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest, "EMPTY_PROMPT", "prompt text is required"
	case errors.Is(err, domain.ErrPromptLocked):
		return http.StatusConflict, "PROMPT_LOCKED", "prompt is locked; unlock it before editing"
	case errors.Is(err, domain.ErrEmptyExtractionRequest):
		return http.StatusBadRequest, "EMPTY_REQUEST", "describe what should be extracted"
	case errors.Is(err, domain.ErrSchemaGeneration):
		return http.StatusBadGateway, "SCHEMA_GENERATION_FAILED", err.Error()
	case errors.Is(err, domain.ErrNoCaseNumbers):
		return http.StatusBadRequest, "NO_CASE_NUMBERS", "no case numbers found in input"
	case errors.Is(err, domain.ErrNothingToExport):
		return http.StatusNotFound, "NOTHING_TO_EXPORT", "there are no results to export"
	case errors.Is(err, domain.ErrUnsupportedExport):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	default:
		var apiErr *prompt.APIError
		if errors.As(err, &apiErr) {
			return http.StatusBadGateway, "SCHEMA_GENERATION_FAILED", err.Error()
		}
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}

	var batchErr *service.BatchUploadError
	if errors.As(err, &batchErr) {
		respondBatchError(c, batchErr, nil)
		return
	}
	RespondError(c, status, code, msg)
}

// respondBatchError reports a partially failed batch. Items that went
// through are returned as data, the failures as error details.
func respondBatchError(c *gin.Context, batchErr *service.BatchUploadError, done interface{}) {
	status, code, msg := MapDomainError(batchErr)
	c.JSON(status, APIResponse{
		Success: false,
		Data:    done,
		Error:   &APIError{Code: code, Message: msg, Details: batchErr.Failures},
	})
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// BackendUnavailable answers every request with 503 when the database is not
// configured.
func BackendUnavailable(c *gin.Context) {
	HandleError(c, domain.ErrBackendNotConfigured)
	c.Abort()
}
