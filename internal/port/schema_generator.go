package port

import (
	"context"

	"ingestdesk/internal/prompt"
)

// SchemaGenerator turns a natural-language extraction request into a schema.
type SchemaGenerator interface {
	GenerateSchema(ctx context.Context, request string) (*prompt.Schema, error)
}
