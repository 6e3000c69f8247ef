// Package gateway opens every backend dependency the console talks to and
// hands out the repositories built on them.
package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"ingestdesk/internal/config"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
	"ingestdesk/internal/realtime"
	"ingestdesk/internal/repository/postgres"
	"ingestdesk/internal/storage"
)

const feedMaxConns = 8

// Gateway holds the opened database, object storage and change feed.
type Gateway struct {
	DB      *sqlx.DB
	Storage port.ObjectStorage
	Feed    port.ChangeFeed

	Projects  port.ProjectRepository
	Documents port.DocumentRepository
	Prompts   port.PromptConfigRepository
	Results   port.ResultRepository
	Cases     port.ImportCaseRepository
	Triggers  port.ProcessTriggerRepository

	feed *realtime.Feed
}

// Open connects to the configured backend. It returns
// domain.ErrBackendNotConfigured when no database is configured. A change
// feed that cannot be opened is logged and left nil; results then rely on
// polling.
func Open(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	if !cfg.DB.Configured() {
		return nil, domain.ErrBackendNotConfigured
	}

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("gateway.Open: database: %w", err)
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("gateway.Open: storage: %w", err)
	}

	g := &Gateway{
		DB:        db,
		Storage:   store,
		Projects:  postgres.NewProjectRepo(db),
		Documents: postgres.NewDocumentRepo(db),
		Prompts:   postgres.NewPromptConfigRepo(db),
		Results:   postgres.NewResultRepo(db),
		Cases:     postgres.NewImportCaseRepo(db),
		Triggers:  postgres.NewProcessTriggerRepo(db),
	}

	feed, err := realtime.Connect(ctx, cfg.DB.DSN(), feedMaxConns)
	if err != nil {
		log.Printf("gateway.Open: change feed unavailable, results will be polled: %v", err)
	} else {
		g.feed = feed
		g.Feed = feed
	}

	if cfg.Storage.CreateBucket {
		if err := store.EnsureBucket(ctx, cfg.Storage.Bucket); err != nil {
			log.Printf("gateway.Open: ensuring bucket %s: %v", cfg.Storage.Bucket, err)
		}
	}

	return g, nil
}

// Close releases the change feed and the database.
func (g *Gateway) Close() error {
	if g.feed != nil {
		g.feed.Close()
	}
	return g.DB.Close()
}
