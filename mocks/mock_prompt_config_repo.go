package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
)

// MockPromptConfigRepo is a mock implementation of port.PromptConfigRepository.
type MockPromptConfigRepo struct {
	mock.Mock
}

func (m *MockPromptConfigRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.PromptConfig, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromptConfig), args.Error(1)
}

func (m *MockPromptConfigRepo) Upsert(ctx context.Context, cfg *domain.PromptConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}
