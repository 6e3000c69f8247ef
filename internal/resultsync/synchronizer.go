// Package resultsync keeps an in-memory window of recent analysis results in
// step with the database, driven by a push feed plus a fallback poll.
package resultsync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

// ResultsTable is the table whose inserts wake the synchronizer.
const ResultsTable = "resultados_analise"

const (
	defaultPollInterval = 20 * time.Second
	defaultPageSize     = 100
	defaultRetryDelay   = time.Second
	maxRetryDelay       = 30 * time.Second
)

// Options tunes a Synchronizer. Zero values fall back to the defaults.
type Options struct {
	PollInterval time.Duration
	PageSize     int
	// RetryDelay is the first wait before resubscribing to a dropped or
	// refused change feed. It doubles up to 30s.
	RetryDelay time.Duration
}

// Snapshot is the synchronizer's current view. Version increases only when
// Rows or Loading actually change.
type Snapshot struct {
	Rows      []domain.AnalysisResult
	Loading   bool
	Version   uint64
	UpdatedAt time.Time
}

// Synchronizer owns the result window for one scope. Run performs every fetch
// on a single goroutine, so responses are applied in the order they were
// requested.
type Synchronizer struct {
	scope    Scope
	repo     port.ResultRepository
	feed     port.ChangeFeed
	interval time.Duration
	pageSize int
	retry    time.Duration

	mu       sync.RWMutex
	snap     Snapshot
	watchers map[int]chan struct{}
	nextID   int

	refresh chan struct{}
}

// NewSynchronizer creates a synchronizer. feed may be nil, in which case only
// the fallback poll drives updates.
func NewSynchronizer(repo port.ResultRepository, feed port.ChangeFeed, scope Scope, opts Options) *Synchronizer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Synchronizer{
		scope:    scope,
		repo:     repo,
		feed:     feed,
		interval: opts.PollInterval,
		pageSize: opts.PageSize,
		retry:    min(opts.RetryDelay, maxRetryDelay),
		watchers: make(map[int]chan struct{}),
		refresh:  make(chan struct{}, 1),
		snap:     Snapshot{Loading: true},
	}
}

// Scope returns the scope this synchronizer follows.
func (s *Synchronizer) Scope() Scope {
	return s.scope
}

// Run blocks until ctx is cancelled. It does one loading fetch, then keeps
// the window fresh from the poll ticker and, when a feed is configured, from
// push events. The feed is followed on its own goroutine so a Subscribe that
// waits for a connection never holds up polling. The subscription and ticker
// are released before Run returns.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	if s.feed != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.follow(ctx)
		}()
	}

	s.fetch(ctx)
	s.finishLoading()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetch(ctx)
		case <-s.refresh:
			s.fetch(ctx)
		}
	}
}

// follow keeps a push subscription open until ctx ends. A refused or dropped
// subscription is retried with doubling delays; after reconnecting, one
// refresh picks up inserts missed while the feed was down.
func (s *Synchronizer) follow(ctx context.Context) {
	delay := s.retry
	reconnect := false
	for {
		sub, err := s.feed.Subscribe(ctx, ResultsTable)
		switch {
		case ctx.Err() != nil:
			if sub != nil {
				_ = sub.Close()
			}
			return
		case err != nil:
			log.Printf("resultsync.follow: subscribe failed for %s, polling only, retry in %s: %v", s.scope.Key(), delay, err)
		default:
			if reconnect {
				s.Refresh()
			}
			delay = s.retry
			s.consume(ctx, sub)
			_ = sub.Close()
			if ctx.Err() != nil {
				return
			}
			log.Printf("resultsync.follow: change feed closed for %s, polling only, retry in %s", s.scope.Key(), delay)
		}
		reconnect = true

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (s *Synchronizer) consume(ctx context.Context, sub port.Subscription) {
	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if s.scope.Matches(ev) {
				s.Refresh()
			}
		}
	}
}

// Refresh requests a quiet fetch. Requests made while one is pending collapse
// into it.
func (s *Synchronizer) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Reconcile replaces the held rows when they differ structurally from rows.
// It reports whether anything changed; watchers are woken only then.
func (s *Synchronizer) Reconcile(rows []domain.AnalysisResult) bool {
	s.mu.Lock()
	if cmp.Equal(s.snap.Rows, rows, cmpopts.EquateEmpty()) {
		s.mu.Unlock()
		return false
	}
	s.snap.Rows = rows
	s.snap.Version++
	s.snap.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	s.notify()
	return true
}

// Snapshot returns the current view. Rows must not be modified.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Watch registers for change notifications. The returned channel receives a
// value after every effective change; bursts coalesce. Call cancel to stop.
func (s *Synchronizer) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Synchronizer) fetch(ctx context.Context) {
	rows, err := s.repo.ListRecent(ctx, s.scope.ProjectID, s.pageSize)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("resultsync.fetch: %s: %v", s.scope.Key(), err)
		}
		return
	}
	s.Reconcile(rows)
}

func (s *Synchronizer) finishLoading() {
	s.mu.Lock()
	s.snap.Loading = false
	s.snap.Version++
	s.mu.Unlock()
	s.notify()
}

func (s *Synchronizer) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
