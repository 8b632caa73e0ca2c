package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fiberops-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	h := startHub(t)
	a := &Client{Hub: h, ID: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: h, ID: "b", Send: make(chan []byte, 4)}
	require.True(t, h.Register(a))
	require.True(t, h.Register(b))
	waitForClients(t, h, 2)

	h.Broadcast(context.Background(), events.RefreshPayload{Type: events.TypeProjectsRefreshed, State: "online", ProjectCount: 7})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var env struct {
				Type string                `json:"type"`
				Data events.RefreshPayload `json:"data"`
			}
			require.NoError(t, json.Unmarshal(msg, &env))
			assert.Equal(t, "data_status", env.Type)
			assert.Equal(t, 7, env.Data.ProjectCount)
		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.ID)
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := &Client{Hub: h, ID: "slow", Send: make(chan []byte)}
	require.True(t, h.Register(slow))
	waitForClients(t, h, 1)

	h.Broadcast(context.Background(), events.RefreshPayload{Type: events.TypeProjectsRefreshed})

	waitForClients(t, h, 0)
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { h.Run(ctx); close(done) }()

	c := &Client{Hub: h, ID: "c", Send: make(chan []byte, 1)}
	require.True(t, h.Register(c))
	waitForClients(t, h, 1)

	cancel()
	<-done
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_SendsAfterStopDoNotBlock(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { h.Run(ctx); close(done) }()

	cancel()
	<-done

	returned := make(chan bool, 1)
	go func() {
		late := &Client{Hub: h, ID: "late", Send: make(chan []byte, 1)}
		h.Unregister(late)
		returned <- h.Register(late)
	}()

	select {
	case registered := <-returned:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after the hub stopped")
	}
}
