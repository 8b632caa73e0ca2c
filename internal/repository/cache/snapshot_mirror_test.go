package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *projectdata.Snapshot {
	tickets := []locate.Ticket{{Ticket1: "A100", Status: "Clear"}}
	return &projectdata.Snapshot{
		Version:     4,
		RefreshedAt: time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC),
		Projects: []project.Record{{
			ID: "NTP-2041", Market: "Rural", Supervisor: "J. Ortiz",
			FootageTotal: 1200, FootageRemaining: 300, CompletionPercent: 75,
			LocateTickets: tickets,
		}},
		Tickets:         locate.Index{"NTP-2041": tickets},
		LocateAvailable: true,
	}
}

func TestDecodeSnapshot_KeepsProjectsAndTickets(t *testing.T) {
	data, err := EncodeSnapshot(sampleSnapshot())
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "NTP-2041", got.Projects[0].ID)
	assert.Equal(t, 75, got.Projects[0].CompletionPercent)
	assert.Equal(t, "A100", got.Tickets.Lookup("NTP-2041")[0].Ticket1)
	assert.True(t, got.RefreshedAt.Equal(sampleSnapshot().RefreshedAt))
}

func TestDecodeSnapshot_RejectsGarbageAndEmpty(t *testing.T) {
	_, err := DecodeSnapshot([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`{"version":1,"projects":[]}`))
	assert.ErrorIs(t, err, ErrMirrorEmpty)

	_, err = EncodeSnapshot(nil)
	assert.Error(t, err)
}

// Runs against a real server only when REDIS_TEST_URL is set.
func TestSnapshotMirror_Redis(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	m := NewSnapshotMirror(rdb, "fiberops:test:"+t.Name(), time.Minute)
	t.Cleanup(func() { rdb.Del(ctx, m.key) })

	_, err = m.Load(ctx)
	assert.ErrorIs(t, err, ErrMirrorEmpty)

	require.NoError(t, m.Save(ctx, sampleSnapshot()))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Projects, 1)
}
