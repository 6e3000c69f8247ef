package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/prompt"
)

// MockSchemaGenerator is a mock implementation of port.SchemaGenerator.
type MockSchemaGenerator struct {
	mock.Mock
}

func (m *MockSchemaGenerator) GenerateSchema(ctx context.Context, request string) (*prompt.Schema, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prompt.Schema), args.Error(1)
}
