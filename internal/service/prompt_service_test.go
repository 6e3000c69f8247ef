package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/prompt"
	"ingestdesk/internal/service"
	"ingestdesk/mocks"
)

func setupPromptService() (*mocks.MockPromptConfigRepo, *mocks.MockSchemaGenerator, service.PromptService) {
	repo := new(mocks.MockPromptConfigRepo)
	gen := new(mocks.MockSchemaGenerator)
	return repo, gen, service.NewPromptService(repo, gen)
}

func TestPromptGet_DefaultWhenMissing(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("GetByProject", mock.Anything, projectID).Return(nil, domain.ErrNotFound)

	view, err := svc.Get(context.Background(), projectID)

	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultPrompt, view.Text)
	assert.False(t, view.Saved)
	assert.Nil(t, view.Schema)
}

func TestPromptGet_PrefersStoredSchema(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("GetByProject", mock.Anything, projectID).Return(&domain.PromptConfig{
		ProjectID:  projectID,
		PromptText: `{"ignorado": "x"}`,
		SchemaJSON: []byte(`{"b": "segundo", "a": "primeiro"}`),
		UpdatedAt:  time.Now(),
	}, nil)

	view, err := svc.Get(context.Background(), projectID)

	require.NoError(t, err)
	assert.True(t, view.Saved)
	assert.Equal(t, []string{"b", "a"}, view.Schema.Keys())
}

func TestPromptGet_ReconstructsFromText(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("GetByProject", mock.Anything, projectID).Return(&domain.PromptConfig{
		ProjectID:  projectID,
		PromptText: "Extraia:\n{\n  \"autor\": \"nome do autor\",\n  \"valor\": \"valor da causa\"\n}\nfim",
	}, nil)

	view, err := svc.Get(context.Background(), projectID)

	require.NoError(t, err)
	require.NotNil(t, view.Schema)
	assert.Equal(t, []string{"autor", "valor"}, view.Schema.Keys())
}

func TestPromptGet_RepoError(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("GetByProject", mock.Anything, projectID).Return(nil, errors.New("db down"))

	_, err := svc.Get(context.Background(), projectID)

	assert.Error(t, err)
}

func TestPromptSave_StoresSchema(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	schema := prompt.NewSchema()
	schema.Set("autor", "nome do autor")

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(cfg *domain.PromptConfig) bool {
		return cfg.ProjectID == projectID &&
			cfg.PromptText == "Extraia o autor" &&
			string(cfg.SchemaJSON) == `{"autor":"nome do autor"}`
	})).Return(nil)

	view, err := svc.Save(context.Background(), projectID, "Extraia o autor", schema)

	require.NoError(t, err)
	assert.True(t, view.Saved)
	repo.AssertExpectations(t)
}

func TestPromptSave_WithoutSchema(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(cfg *domain.PromptConfig) bool {
		return cfg.SchemaJSON == nil
	})).Return(nil)

	_, err := svc.Save(context.Background(), projectID, "texto livre", nil)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPromptSave_EmptyText(t *testing.T) {
	repo, _, svc := setupPromptService()

	_, err := svc.Save(context.Background(), uuid.New(), "  \n ", nil)

	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPromptLock_BlocksWrites(t *testing.T) {
	repo, gen, svc := setupPromptService()
	projectID := uuid.New()
	other := uuid.New()

	svc.Lock(projectID)
	assert.True(t, svc.IsLocked(projectID))
	assert.False(t, svc.IsLocked(other))

	_, err := svc.Save(context.Background(), projectID, "texto", nil)
	assert.ErrorIs(t, err, domain.ErrPromptLocked)

	_, err = svc.Generate(context.Background(), projectID, "extrair autor")
	assert.ErrorIs(t, err, domain.ErrPromptLocked)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	gen.AssertNotCalled(t, "GenerateSchema", mock.Anything, mock.Anything)

	svc.Unlock(projectID)
	assert.False(t, svc.IsLocked(projectID))
}

func TestPromptGet_ReportsLock(t *testing.T) {
	repo, _, svc := setupPromptService()
	projectID := uuid.New()
	repo.On("GetByProject", mock.Anything, projectID).Return(nil, domain.ErrNotFound)

	svc.Lock(projectID)
	view, err := svc.Get(context.Background(), projectID)

	require.NoError(t, err)
	assert.True(t, view.Locked)
}

func TestPromptGenerate_BuildsDraft(t *testing.T) {
	_, gen, svc := setupPromptService()
	schema := prompt.NewSchema()
	schema.Set("autor", "nome do autor")
	gen.On("GenerateSchema", mock.Anything, "extrair o autor").Return(schema, nil)

	draft, err := svc.Generate(context.Background(), uuid.New(), "  extrair o autor ")

	require.NoError(t, err)
	assert.Equal(t, schema, draft.Schema)
	assert.Equal(t, prompt.BuildFullPrompt("extrair o autor", schema), draft.Prompt)
}

func TestPromptGenerate_EmptyRequest(t *testing.T) {
	_, gen, svc := setupPromptService()

	_, err := svc.Generate(context.Background(), uuid.New(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyExtractionRequest)
	gen.AssertNotCalled(t, "GenerateSchema", mock.Anything, mock.Anything)
}

func TestPromptGenerate_NoGenerator(t *testing.T) {
	svc := service.NewPromptService(new(mocks.MockPromptConfigRepo), nil)

	_, err := svc.Generate(context.Background(), uuid.New(), "extrair")

	assert.ErrorIs(t, err, domain.ErrGeneratorNotConfigured)
}

func TestPromptGenerate_RateLimited(t *testing.T) {
	_, gen, svc := setupPromptService()
	rl := &prompt.RateLimitError{Attempts: 3, Waited: 9 * time.Second}
	gen.On("GenerateSchema", mock.Anything, "extrair").Return(nil, rl)

	_, err := svc.Generate(context.Background(), uuid.New(), "extrair")

	var got *prompt.RateLimitError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 3, got.Attempts)
}
