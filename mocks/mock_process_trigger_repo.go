package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
)

// MockProcessTriggerRepo is a mock implementation of port.ProcessTriggerRepository.
type MockProcessTriggerRepo struct {
	mock.Mock
}

func (m *MockProcessTriggerRepo) Create(ctx context.Context, projectID uuid.UUID) (*domain.ProcessTrigger, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessTrigger), args.Error(1)
}
