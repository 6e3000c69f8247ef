package port

import (
	"context"

	"github.com/google/uuid"

	"ingestdesk/internal/domain"
)

// ChangeEvent is one row change pushed by the change feed.
type ChangeEvent struct {
	Table     string            `json:"table"`
	Type      domain.ChangeType `json:"type"`
	RecordID  string            `json:"id"`
	ProjectID *uuid.UUID        `json:"projeto_id"`
}

// Subscription is a live change stream. Events is closed once the
// subscription ends, either through Close or because the feed dropped.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}

// ChangeFeed opens push subscriptions for row changes on a table.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string) (Subscription, error)
}
