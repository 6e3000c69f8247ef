package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/service"
)

// MockResultService is a mock implementation of service.ResultService.
type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) Recent(ctx context.Context, scope resultsync.Scope) (*service.ResultWindow, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResultWindow), args.Error(1)
}

func (m *MockResultService) Watch(scope resultsync.Scope) *resultsync.Watcher {
	args := m.Called(scope)
	return args.Get(0).(*resultsync.Watcher)
}

func (m *MockResultService) Window(snap resultsync.Snapshot) *service.ResultWindow {
	args := m.Called(snap)
	return args.Get(0).(*service.ResultWindow)
}

func (m *MockResultService) Export(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat) (*service.Export, error) {
	args := m.Called(ctx, projectID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Export), args.Error(1)
}

func (m *MockResultService) ExportAs(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat, name string) (*service.Export, error) {
	args := m.Called(ctx, projectID, format, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Export), args.Error(1)
}
