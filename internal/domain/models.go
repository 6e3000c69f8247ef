package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SalesforceProjectID is the fixed project that owns every import case and
// the results the worker produces for them. It is hidden from project lists.
var SalesforceProjectID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Project is a user-defined container for documents, a prompt configuration
// and results.
type Project struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"nome" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Document is an uploaded file waiting for (or done with) worker processing.
type Document struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ProjectID    uuid.UUID      `db:"projeto_id" json:"project_id"`
	FileName     string         `db:"filename" json:"filename"`
	StoragePath  string         `db:"storage_path" json:"storage_path"`
	SizeBytes    int64          `db:"tamanho_bytes" json:"size_bytes"`
	Status       DocumentStatus `db:"status" json:"status"`
	ErrorMessage *string        `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// PromptConfig is the single extraction prompt configured for a project.
type PromptConfig struct {
	ID         int64           `db:"id" json:"-"`
	ProjectID  uuid.UUID       `db:"projeto_id" json:"project_id"`
	PromptText string          `db:"prompt_text" json:"prompt_text"`
	SchemaJSON json.RawMessage `db:"schema_json" json:"schema,omitempty"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// AnalysisResult is one extraction written by the worker. Data is arbitrary
// nested JSON shaped by the project's schema.
type AnalysisResult struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ProjectID   *uuid.UUID      `db:"projeto_id" json:"project_id,omitempty"`
	SourceFile  string          `db:"arquivo_original" json:"source_file"`
	Data        json.RawMessage `db:"dados_json" json:"data"`
	ProcessedAt *time.Time      `db:"data_processamento" json:"processed_at"`
}

// ImportCase is a CRM case number queued for the worker to download.
type ImportCase struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CaseNumber   string     `db:"numero_caso" json:"case_number"`
	ProjectID    uuid.UUID  `db:"projeto_id" json:"project_id"`
	Status       CaseStatus `db:"status" json:"status"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	ResourceURL  *string    `db:"zip_url" json:"resource_url,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CaseStats summarizes a window of import cases.
type CaseStats struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Errors     int `json:"errors"`
}

// ProcessTrigger is the signal row the worker polls to start processing a
// project's pending documents.
type ProcessTrigger struct {
	ID        int64     `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"projeto_id" json:"project_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
