package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
	"ingestdesk/internal/prompt"
)

// PromptView is what the editor shows for a project.
type PromptView struct {
	ProjectID uuid.UUID      `json:"project_id"`
	Text      string         `json:"prompt_text"`
	Schema    *prompt.Schema `json:"schema,omitempty"`
	Saved     bool           `json:"saved"`
	Locked    bool           `json:"locked"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// PromptDraft is a generated schema and the prompt built from it. Nothing is
// persisted until the draft is saved.
type PromptDraft struct {
	Schema *prompt.Schema `json:"schema"`
	Prompt string         `json:"prompt_text"`
}

// PromptService defines the prompt configuration contract.
type PromptService interface {
	Get(ctx context.Context, projectID uuid.UUID) (*PromptView, error)
	Save(ctx context.Context, projectID uuid.UUID, text string, schema *prompt.Schema) (*PromptView, error)
	Generate(ctx context.Context, projectID uuid.UUID, request string) (*PromptDraft, error)
	Lock(projectID uuid.UUID)
	Unlock(projectID uuid.UUID)
	IsLocked(projectID uuid.UUID) bool
}

type promptService struct {
	configRepo port.PromptConfigRepository
	generator  port.SchemaGenerator

	mu     sync.RWMutex
	locked map[uuid.UUID]struct{}
}

// NewPromptService creates a new PromptService implementation. generator may
// be nil when no model credential is configured.
func NewPromptService(configRepo port.PromptConfigRepository, generator port.SchemaGenerator) PromptService {
	return &promptService{
		configRepo: configRepo,
		generator:  generator,
		locked:     make(map[uuid.UUID]struct{}),
	}
}

// Get returns the saved configuration, or the default prompt when the project
// has none yet.
func (s *promptService) Get(ctx context.Context, projectID uuid.UUID) (*PromptView, error) {
	cfg, err := s.configRepo.GetByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &PromptView{
				ProjectID: projectID,
				Text:      prompt.DefaultPrompt,
				Locked:    s.IsLocked(projectID),
			}, nil
		}
		return nil, err
	}
	return s.view(cfg), nil
}

func (s *promptService) Save(ctx context.Context, projectID uuid.UUID, text string, schema *prompt.Schema) (*PromptView, error) {
	if s.IsLocked(projectID) {
		return nil, domain.ErrPromptLocked
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	cfg := &domain.PromptConfig{ProjectID: projectID, PromptText: text}
	if schema.Len() > 0 {
		raw, err := schema.MarshalJSON()
		if err != nil {
			return nil, err
		}
		cfg.SchemaJSON = raw
	}

	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	log.Printf("promptService.Save: saved prompt for project %s (%d chars)", projectID, len(text))
	return s.view(cfg), nil
}

// Generate asks the generator for a schema and assembles the full prompt.
func (s *promptService) Generate(ctx context.Context, projectID uuid.UUID, request string) (*PromptDraft, error) {
	if s.IsLocked(projectID) {
		return nil, domain.ErrPromptLocked
	}
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, domain.ErrEmptyExtractionRequest
	}
	if s.generator == nil {
		return nil, domain.ErrGeneratorNotConfigured
	}

	schema, err := s.generator.GenerateSchema(ctx, request)
	if err != nil {
		log.Printf("promptService.Generate: project %s: %v", projectID, err)
		return nil, err
	}
	return &PromptDraft{
		Schema: schema,
		Prompt: prompt.BuildFullPrompt(request, schema),
	}, nil
}

// Lock makes the project's prompt read-only until Unlock. Stored data is not
// touched.
func (s *promptService) Lock(projectID uuid.UUID) {
	s.mu.Lock()
	s.locked[projectID] = struct{}{}
	s.mu.Unlock()
}

func (s *promptService) Unlock(projectID uuid.UUID) {
	s.mu.Lock()
	delete(s.locked, projectID)
	s.mu.Unlock()
}

func (s *promptService) IsLocked(projectID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locked[projectID]
	return ok
}

func (s *promptService) view(cfg *domain.PromptConfig) *PromptView {
	updated := cfg.UpdatedAt
	v := &PromptView{
		ProjectID: cfg.ProjectID,
		Text:      cfg.PromptText,
		Saved:     true,
		Locked:    s.IsLocked(cfg.ProjectID),
		UpdatedAt: &updated,
	}

	if len(cfg.SchemaJSON) > 0 {
		if schema, err := prompt.ParseSchema(cfg.SchemaJSON); err == nil && schema.Len() > 0 {
			v.Schema = schema
			return v
		}
	}
	if schema, ok := prompt.TryReconstructSchema(cfg.PromptText); ok {
		v.Schema = schema
	}
	return v
}
