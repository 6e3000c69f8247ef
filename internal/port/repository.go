package port

import (
	"context"

	"github.com/google/uuid"

	"ingestdesk/internal/domain"
)

// ProjectRepository defines the contract for the projeto table.
type ProjectRepository interface {
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository defines the contract for the documento_gerenciamento table.
// Status is owned by the worker; there is deliberately no update method.
type DocumentRepository interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Create(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PromptConfigRepository defines the contract for the prompt_config table.
// GetByProject returns domain.ErrNotFound when the project has no row.
type PromptConfigRepository interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.PromptConfig, error)
	Upsert(ctx context.Context, cfg *domain.PromptConfig) error
}

// ResultRepository defines the read-only contract for resultados_analise.
// A nil projectID means every project.
type ResultRepository interface {
	ListRecent(ctx context.Context, projectID *uuid.UUID, limit int) ([]domain.AnalysisResult, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.AnalysisResult, error)
}

// ImportCaseRepository defines the contract for casos_processamento.
type ImportCaseRepository interface {
	// InsertPending creates PENDENTE rows, skipping case numbers that already
	// exist. It returns how many rows were actually inserted.
	InsertPending(ctx context.Context, projectID uuid.UUID, caseNumbers []string) (int, error)
	ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ImportCase, error)
}

// ProcessTriggerRepository defines the contract for the processar_agora table.
type ProcessTriggerRepository interface {
	Create(ctx context.Context, projectID uuid.UUID) (*domain.ProcessTrigger, error)
}
