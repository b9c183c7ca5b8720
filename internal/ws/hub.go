// Package ws pushes order updates to connected browsers. Delivery is
// best-effort: a client that is offline simply catches up on its next
// poll of the orders API.
package ws

import (
	"net/http"
	"sync"
	"time"

	"snackshop/internal/util"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Storefront and API are served same-origin behind the proxy.
		return true
	},
}

// Message is the envelope broadcast to every connected client.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
	hub  *Hub
}

// Hub fans messages out to all connected clients. Slow clients are
// dropped rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan Message
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates a hub; call Run in a goroutine to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     util.GetLogger(),
	}
}

// Run owns the client set until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			util.WebSocketClientsConnected.Set(float64(count))
			h.logger.Info("WebSocket client connected", zap.Int("client_count", count))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			util.WebSocketClientsConnected.Set(float64(count))
			h.logger.Info("WebSocket client disconnected", zap.Int("client_count", count))

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected client. Drops the
// message when the queue is full rather than blocking the caller.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	message := Message{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Broadcast channel full, dropping message",
			zap.String("type", messageType))
	}
}

// HandleConnection upgrades an HTTP request and attaches the client.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Message, 256),
		hub:  h,
	}

	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process control messages and notice disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
