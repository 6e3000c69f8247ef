package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrBackendNotConfigured   = errors.New("backend credentials are not configured")
	ErrProjectNotFound        = errors.New("project not found")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrEmptyProjectName       = errors.New("project name is required")
	ErrNoFiles                = errors.New("no files to upload")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrEmptyPrompt            = errors.New("prompt text is required")
	ErrPromptLocked           = errors.New("prompt is locked for this project")
	ErrEmptyExtractionRequest = errors.New("extraction request is empty")
	ErrGeneratorNotConfigured = errors.New("schema generator is not configured")
	ErrSchemaGeneration       = errors.New("schema generation failed")
	ErrNoCaseNumbers          = errors.New("no case numbers in input")
	ErrNothingToExport        = errors.New("no results to export")
	ErrUnsupportedExport      = errors.New("unsupported export format")
)
