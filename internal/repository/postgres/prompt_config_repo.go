package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

type promptConfigRepo struct {
	db *sqlx.DB
}

// NewPromptConfigRepo creates a new PostgreSQL-backed PromptConfigRepository.
func NewPromptConfigRepo(db *sqlx.DB) port.PromptConfigRepository {
	return &promptConfigRepo{db: db}
}

func (r *promptConfigRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.PromptConfig, error) {
	var cfg domain.PromptConfig
	err := r.db.GetContext(ctx, &cfg,
		`SELECT id, projeto_id, prompt_text, schema_json, updated_at
		 FROM prompt_config WHERE projeto_id = $1`, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("promptConfigRepo.GetByProject: %w", err)
	}
	return &cfg, nil
}

// Upsert writes the project's single configuration row; a second save for the
// same project overwrites the first.
func (r *promptConfigRepo) Upsert(ctx context.Context, cfg *domain.PromptConfig) error {
	cfg.UpdatedAt = time.Now().UTC()

	var schema any
	if len(cfg.SchemaJSON) > 0 {
		schema = []byte(cfg.SchemaJSON)
	}

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO prompt_config (projeto_id, prompt_text, schema_json, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (projeto_id) DO UPDATE SET
		   prompt_text = EXCLUDED.prompt_text,
		   schema_json = EXCLUDED.schema_json,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		cfg.ProjectID, cfg.PromptText, schema, cfg.UpdatedAt).Scan(&cfg.ID)
	if err != nil {
		return fmt.Errorf("promptConfigRepo.Upsert: %w", err)
	}
	return nil
}
