package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

const resultColumns = "id, projeto_id, arquivo_original, dados_json, data_processamento"

type resultRepo struct {
	db *sqlx.DB
}

// NewResultRepo creates a new PostgreSQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) ListRecent(ctx context.Context, projectID *uuid.UUID, limit int) ([]domain.AnalysisResult, error) {
	var results []domain.AnalysisResult
	var err error
	if projectID == nil {
		err = r.db.SelectContext(ctx, &results,
			"SELECT "+resultColumns+` FROM resultados_analise
			 ORDER BY data_processamento DESC NULLS LAST LIMIT $1`, limit)
	} else {
		err = r.db.SelectContext(ctx, &results,
			"SELECT "+resultColumns+` FROM resultados_analise WHERE projeto_id = $1
			 ORDER BY data_processamento DESC NULLS LAST LIMIT $2`, *projectID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("resultRepo.ListRecent: %w", err)
	}
	return results, nil
}

func (r *resultRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.AnalysisResult, error) {
	var results []domain.AnalysisResult
	err := r.db.SelectContext(ctx, &results,
		"SELECT "+resultColumns+` FROM resultados_analise WHERE projeto_id = $1
		 ORDER BY data_processamento DESC NULLS LAST`, projectID)
	if err != nil {
		return nil, fmt.Errorf("resultRepo.ListByProject: %w", err)
	}
	return results, nil
}
