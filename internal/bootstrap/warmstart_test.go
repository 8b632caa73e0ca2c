package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/testutil"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMirror struct {
	snap *projectdata.Snapshot
	err  error
}

func (m stubMirror) Save(ctx context.Context, snap *projectdata.Snapshot) error { return nil }

func (m stubMirror) Load(ctx context.Context) (*projectdata.Snapshot, error) {
	return m.snap, m.err
}

func failingStore(t *testing.T) *projectdata.Store {
	srv := testutil.NewSheetServer(t)
	srv.Fail("/p.xlsx", http.StatusForbidden)
	srv.Fail("/l.xlsx", http.StatusForbidden)
	log := logger.NewNopLogger()
	return projectdata.NewStore(
		sheets.NewFetcher(5*time.Second),
		projectdata.Sources{ProjectURL: srv.URL("/p.xlsx"), LocateURL: srv.URL("/l.xlsx")},
		locate.NewIndexer(locate.DefaultRules(), log),
		project.NewAggregator(project.DefaultRules(), log),
		log,
	)
}

func TestWarmStart_UsesMirrorWhenLiveFails(t *testing.T) {
	store := failingStore(t)
	mirrored := &projectdata.Snapshot{
		Version:     41,
		RefreshedAt: time.Now().Add(-time.Hour),
		Projects:    []project.Record{{ID: "FB-7", Supervisor: "Lee"}},
	}

	ok := WarmStart(context.Background(), store, stubMirror{snap: mirrored}, logger.NewNopLogger())
	require.True(t, ok)

	st := store.Status()
	assert.Equal(t, projectdata.StateOnline, st.State)
	assert.True(t, st.Stale)
	assert.Equal(t, 1, st.ProjectCount)
	assert.Equal(t, uint64(1), st.Version)

	rec, err := store.ProjectByID("FB-7")
	require.NoError(t, err)
	assert.Equal(t, "Lee", rec.Supervisor)
}

func TestWarmStart_StaysOfflineWithoutMirror(t *testing.T) {
	store := failingStore(t)

	assert.False(t, WarmStart(context.Background(), store, nil, logger.NewNopLogger()))
	assert.False(t, WarmStart(context.Background(), store, stubMirror{err: errors.New("empty")}, logger.NewNopLogger()))
	assert.Equal(t, projectdata.StateOffline, store.Status().State)
}
