package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshPayload_Event(t *testing.T) {
	now := time.Now()
	ok := RefreshPayload{Type: TypeProjectsRefreshed, State: "online", Version: 3, ProjectCount: 12, RefreshedAt: now, OccurredAt: now}

	ev := ok.Event()
	assert.Equal(t, TypeProjectsRefreshed, ev.EventType())
	assert.Equal(t, 12, ev.Payload()["project_count"])
	assert.NotContains(t, ev.Payload(), "error")
	assert.Equal(t, now, ev.Timestamp())
	assert.False(t, ok.Failed())

	failed := RefreshPayload{Type: TypeProjectsRefreshError, State: "offline", Error: "status 503", OccurredAt: now}
	assert.True(t, failed.Failed())
	assert.Equal(t, "status 503", failed.Event().Payload()["error"])
	assert.NotContains(t, failed.Event().Payload(), "refreshed_at")
}
