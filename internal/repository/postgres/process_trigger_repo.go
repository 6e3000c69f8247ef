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

type processTriggerRepo struct {
	db *sqlx.DB
}

// NewProcessTriggerRepo creates a new PostgreSQL-backed ProcessTriggerRepository.
func NewProcessTriggerRepo(db *sqlx.DB) port.ProcessTriggerRepository {
	return &processTriggerRepo{db: db}
}

func (r *processTriggerRepo) Create(ctx context.Context, projectID uuid.UUID) (*domain.ProcessTrigger, error) {
	t := &domain.ProcessTrigger{ProjectID: projectID, CreatedAt: time.Now().UTC()}
	err := r.db.QueryRowxContext(ctx,
		"INSERT INTO processar_agora (projeto_id, created_at) VALUES ($1, $2) RETURNING id",
		t.ProjectID, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("processTriggerRepo.Create: %w", err)
	}
	return t, nil
}
