package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"ingestdesk/internal/port"
)

// MockChangeFeed is a mock implementation of port.ChangeFeed.
type MockChangeFeed struct {
	mock.Mock
}

func (m *MockChangeFeed) Subscribe(ctx context.Context, table string) (port.Subscription, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.Subscription), args.Error(1)
}

// ChannelSubscription is a port.Subscription fed by the test through Send.
type ChannelSubscription struct {
	events chan port.ChangeEvent
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// NewChannelSubscription creates a subscription with a small event buffer.
func NewChannelSubscription() *ChannelSubscription {
	return &ChannelSubscription{events: make(chan port.ChangeEvent, 8)}
}

// Send delivers ev to the consumer.
func (s *ChannelSubscription) Send(ev port.ChangeEvent) {
	s.events <- ev
}

func (s *ChannelSubscription) Events() <-chan port.ChangeEvent {
	return s.events
}

func (s *ChannelSubscription) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.events) })
	return nil
}

// Drop ends the event stream the way a lost connection does, without Close.
func (s *ChannelSubscription) Drop() {
	s.once.Do(func() { close(s.events) })
}

// Closed reports whether Close has been called.
func (s *ChannelSubscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
