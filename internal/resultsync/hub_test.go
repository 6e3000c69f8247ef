package resultsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/resultsync"
	"ingestdesk/mocks"
)

func TestHub_RefCountsPerScope(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("ListRecent", mock.Anything, mock.Anything, 100).Return([]domain.AnalysisResult{}, nil)

	hub := resultsync.NewHub(context.Background(), repo, nil, resultsync.Options{PollInterval: time.Hour})
	defer hub.Close()

	projectID := uuid.New()
	a := hub.Watch(resultsync.ProjectScope(projectID))
	b := hub.Watch(resultsync.ProjectScope(projectID))
	c := hub.Watch(resultsync.AllProjects())
	assert.Equal(t, 2, hub.Active())

	a.Close()
	a.Close()
	assert.Equal(t, 2, hub.Active())

	b.Close()
	assert.Equal(t, 1, hub.Active())

	c.Close()
	assert.Equal(t, 0, hub.Active())
}

func TestHub_WatcherSeesLoadingFetch(t *testing.T) {
	rows := []domain.AnalysisResult{result(uuid.New(), "a.pdf", `{"k":"v"}`)}
	repo := new(mocks.MockResultRepo)
	repo.On("ListRecent", mock.Anything, mock.Anything, 100).Return(rows, nil)

	hub := resultsync.NewHub(context.Background(), repo, nil, resultsync.Options{PollInterval: time.Hour})
	defer hub.Close()

	w := hub.Watch(resultsync.AllProjects())
	defer w.Close()

	require.Eventually(t, func() bool {
		snap := w.Snapshot()
		return !snap.Loading && len(snap.Rows) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHub_CloseStopsSynchronizers(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("ListRecent", mock.Anything, mock.Anything, 100).Return([]domain.AnalysisResult{}, nil)

	hub := resultsync.NewHub(context.Background(), repo, nil, resultsync.Options{PollInterval: time.Hour})
	hub.Watch(resultsync.AllProjects())
	hub.Watch(resultsync.ProjectScope(uuid.New()))

	closed := make(chan struct{})
	go func() {
		hub.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not close")
	}
	assert.Equal(t, 0, hub.Active())
}

func TestHub_WatcherDoneWhenContextEnds(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("ListRecent", mock.Anything, mock.Anything, 100).Return([]domain.AnalysisResult{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	hub := resultsync.NewHub(ctx, repo, nil, resultsync.Options{PollInterval: time.Hour})
	w := hub.Watch(resultsync.AllProjects())
	defer w.Close()

	select {
	case <-w.Done():
		t.Fatal("watcher done while the hub is running")
	default:
	}

	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not done after the hub context ended")
	}
	hub.Close()
}
