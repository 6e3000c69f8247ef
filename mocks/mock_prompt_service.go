package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/prompt"
	"ingestdesk/internal/service"
)

// MockPromptService is a mock implementation of service.PromptService.
type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) Get(ctx context.Context, projectID uuid.UUID) (*service.PromptView, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PromptView), args.Error(1)
}

func (m *MockPromptService) Save(ctx context.Context, projectID uuid.UUID, text string, schema *prompt.Schema) (*service.PromptView, error) {
	args := m.Called(ctx, projectID, text, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PromptView), args.Error(1)
}

func (m *MockPromptService) Generate(ctx context.Context, projectID uuid.UUID, request string) (*service.PromptDraft, error) {
	args := m.Called(ctx, projectID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PromptDraft), args.Error(1)
}

func (m *MockPromptService) Lock(projectID uuid.UUID) {
	m.Called(projectID)
}

func (m *MockPromptService) Unlock(projectID uuid.UUID) {
	m.Called(projectID)
}

func (m *MockPromptService) IsLocked(projectID uuid.UUID) bool {
	args := m.Called(projectID)
	return args.Bool(0)
}
