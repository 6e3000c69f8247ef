package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
)

// MockResultRepo is a mock implementation of port.ResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) ListRecent(ctx context.Context, projectID *uuid.UUID, limit int) ([]domain.AnalysisResult, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalysisResult), args.Error(1)
}

func (m *MockResultRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.AnalysisResult, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalysisResult), args.Error(1)
}
