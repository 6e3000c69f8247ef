// Package realtime delivers row-change events from Postgres LISTEN/NOTIFY.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ingestdesk/internal/port"
)

const eventBuffer = 16

// Feed is a ChangeFeed backed by a pgx pool. Every subscription holds one
// pool connection for its whole lifetime.
type Feed struct {
	pool *pgxpool.Pool
}

// Connect opens the pool used for LISTEN connections.
func Connect(ctx context.Context, dsn string, maxConns int32) (*Feed, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("realtime.Connect: %w", err)
	}
	return &Feed{pool: pool}, nil
}

// Close releases the pool. Open subscriptions must be closed first.
func (f *Feed) Close() {
	f.pool.Close()
}

// Subscribe listens on the channel named after table. The trigger installed by
// the migrations publishes on that channel.
func (f *Feed) Subscribe(ctx context.Context, table string) (port.Subscription, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("realtime.Subscribe acquire: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{table}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("realtime.Subscribe listen: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &subscription{
		events: make(chan port.ChangeEvent, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(subCtx, conn, table)
	return s, nil
}

type subscription struct {
	events chan port.ChangeEvent
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Events() <-chan port.ChangeEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}

func (s *subscription) run(ctx context.Context, conn *pgxpool.Conn, table string) {
	defer close(s.done)
	defer close(s.events)
	defer func() {
		// A cancelled wait leaves the connection mid-protocol; drop it
		// instead of handing it back to the pool.
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Conn().Close(closeCtx)
		conn.Release()
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("realtime.subscription: %s feed dropped: %v", table, err)
			}
			return
		}

		ev, err := parsePayload(table, n.Payload)
		if err != nil {
			log.Printf("realtime.subscription: skipping %s notification: %v", table, err)
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func parsePayload(table, payload string) (port.ChangeEvent, error) {
	var ev port.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return port.ChangeEvent{}, fmt.Errorf("decoding payload: %w", err)
	}
	if ev.Table == "" {
		ev.Table = table
	}
	if ev.Table != table {
		return port.ChangeEvent{}, fmt.Errorf("payload for table %q on channel %q", ev.Table, table)
	}
	return ev, nil
}
