package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
)

// MockImportCaseRepo is a mock implementation of port.ImportCaseRepository.
type MockImportCaseRepo struct {
	mock.Mock
}

func (m *MockImportCaseRepo) InsertPending(ctx context.Context, projectID uuid.UUID, caseNumbers []string) (int, error) {
	args := m.Called(ctx, projectID, caseNumbers)
	return args.Int(0), args.Error(1)
}

func (m *MockImportCaseRepo) ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ImportCase, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportCase), args.Error(1)
}
