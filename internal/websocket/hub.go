package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	logModule      = "Hub"
	clusterChannel = "fiberops:data_status"
)

// clusterMessage is what instances exchange over Redis; Origin lets an instance skip its own echo.
type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// Hub fans data-status messages out to every connected dashboard.
type Hub struct {
	id string

	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	// done is closed once Run has returned; sends to register/unregister give up after that.
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(logModule, "Client registered", map[string]interface{}{"client_id": client.ID, "clients": n})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info(logModule, "Client unregistered", map[string]interface{}{"client_id": client.ID})
		}
	}
}

// Register hands a client to the running hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister is a no-op once the hub has stopped; Run already closed every client then.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Encode wraps a refresh payload in the envelope dashboards expect.
func Encode(p events.RefreshPayload) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "data_status",
		"data": p,
	})
	return data
}

// Broadcast sends a refresh outcome to local clients and relays it to other instances.
func (h *Hub) Broadcast(ctx context.Context, p events.RefreshPayload) {
	data := Encode(p)
	h.deliver(data)

	if h.rdb != nil {
		jsonPayload, _ := json.Marshal(clusterMessage{Origin: h.id, Message: data})
		if err := h.rdb.Publish(ctx, clusterChannel, jsonPayload).Err(); err != nil {
			h.logger.Warn(logModule, "Failed to relay status to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliver(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn(logModule, "Client Send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
		h.Unregister(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn(logModule, "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.id {
				continue
			}
			h.deliver(payload.Message)
		}
	}
}
