package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

type importCaseRepo struct {
	db *sqlx.DB
}

// NewImportCaseRepo creates a new PostgreSQL-backed ImportCaseRepository.
func NewImportCaseRepo(db *sqlx.DB) port.ImportCaseRepository {
	return &importCaseRepo{db: db}
}

func (r *importCaseRepo) InsertPending(ctx context.Context, projectID uuid.UUID, caseNumbers []string) (int, error) {
	if len(caseNumbers) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]domain.ImportCase, 0, len(caseNumbers))
	for _, n := range caseNumbers {
		rows = append(rows, domain.ImportCase{
			ID:         uuid.New(),
			CaseNumber: n,
			ProjectID:  projectID,
			Status:     domain.CaseStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	result, err := r.db.NamedExecContext(ctx,
		`INSERT INTO casos_processamento (id, numero_caso, projeto_id, status, created_at, updated_at)
		 VALUES (:id, :numero_caso, :projeto_id, :status, :created_at, :updated_at)
		 ON CONFLICT (numero_caso) DO NOTHING`, rows)
	if err != nil {
		return 0, fmt.Errorf("importCaseRepo.InsertPending: %w", err)
	}
	inserted, _ := result.RowsAffected()
	return int(inserted), nil
}

func (r *importCaseRepo) ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ImportCase, error) {
	var cases []domain.ImportCase
	err := r.db.SelectContext(ctx, &cases,
		`SELECT id, numero_caso, projeto_id, status, error_message, zip_url, created_at, updated_at
		 FROM casos_processamento WHERE projeto_id = $1
		 ORDER BY created_at DESC LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("importCaseRepo.ListRecent: %w", err)
	}
	return cases, nil
}
