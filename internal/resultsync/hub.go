package resultsync

import (
	"context"
	"sync"

	"ingestdesk/internal/port"
)

// Hub shares one Synchronizer per scope between any number of watchers. The
// first watcher of a scope starts its synchronizer and the last one to leave
// stops it.
type Hub struct {
	ctx  context.Context
	repo port.ResultRepository
	feed port.ChangeFeed
	opts Options

	mu      sync.Mutex
	entries map[string]*hubEntry
}

type hubEntry struct {
	syncer *Synchronizer
	refs   int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub whose synchronizers live at most as long as ctx.
func NewHub(ctx context.Context, repo port.ResultRepository, feed port.ChangeFeed, opts Options) *Hub {
	return &Hub{
		ctx:     ctx,
		repo:    repo,
		feed:    feed,
		opts:    opts,
		entries: make(map[string]*hubEntry),
	}
}

// Watcher is one consumer's handle on a shared synchronizer.
type Watcher struct {
	C <-chan struct{}

	syncer  *Synchronizer
	done    <-chan struct{}
	unwatch func()
	release func()
	once    sync.Once
}

// Snapshot returns the shared synchronizer's current view.
func (w *Watcher) Snapshot() Snapshot {
	return w.syncer.Snapshot()
}

// Done is closed once the shared synchronizer has stopped, either because
// the hub's context ended or the hub was closed. No further notifications
// arrive after that.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops notifications and drops the watcher's reference.
func (w *Watcher) Close() {
	w.once.Do(func() {
		w.unwatch()
		w.release()
	})
}

// Watch attaches to the synchronizer for scope, starting it if needed.
func (h *Hub) Watch(scope Scope) *Watcher {
	key := scope.Key()

	var (
		started bool
		runCtx  context.Context
	)

	h.mu.Lock()
	e, ok := h.entries[key]
	if !ok {
		ctx, cancel := context.WithCancel(h.ctx)
		e = &hubEntry{
			syncer: NewSynchronizer(h.repo, h.feed, scope, h.opts),
			cancel: cancel,
			done:   make(chan struct{}),
		}
		h.entries[key] = e
		started = true
		runCtx = ctx
	}
	e.refs++
	ch, unwatch := e.syncer.Watch()
	h.mu.Unlock()

	if started {
		go func() {
			defer close(e.done)
			e.syncer.Run(runCtx)
		}()
	}
	return &Watcher{
		C:       ch,
		syncer:  e.syncer,
		done:    e.done,
		unwatch: unwatch,
		release: func() { h.release(key, e) },
	}
}

// Active returns how many scopes currently have a running synchronizer.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *Hub) release(key string, e *hubEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e.refs--
	if e.refs > 0 {
		return
	}
	if h.entries[key] == e {
		delete(h.entries, key)
	}
	e.cancel()
}

// Close stops every synchronizer and waits for them to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	entries := make([]*hubEntry, 0, len(h.entries))
	for k, e := range h.entries {
		entries = append(entries, e)
		delete(h.entries, k)
		e.cancel()
	}
	h.mu.Unlock()

	for _, e := range entries {
		<-e.done
	}
}
