package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection, queues initial (the current status) and blocks until the
// peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, initial []byte) {
	client := &Client{Hub: hub, Conn: c, ID: uuid.NewString(), Send: make(chan []byte, 16)}
	if initial != nil {
		client.Send <- initial
	}
	if !hub.Register(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
