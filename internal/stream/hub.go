// Package stream pushes freshly aggregated engine metrics to connected
// dashboard clients over websockets.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"perf-governor/internal/observability"
)

// Hub fans one JSON payload out to every connected subscriber.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard and API are served from different origins in dev.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
		subs:   make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away. Subscribers are write-only; inbound frames are
// drained and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.subs[conn] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	observability.DefaultMetrics.StreamSubscribers.Set(float64(n))

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast marshals v once and writes it to every subscriber. Subscribers
// that fail to accept the write are dropped.
func (h *Hub) Broadcast(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Printf("marshal broadcast payload: %v", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(c)
		}
	}
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.subs = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	observability.DefaultMetrics.StreamSubscribers.Set(0)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.subs[conn]
	delete(h.subs, conn)
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		conn.Close()
		observability.DefaultMetrics.StreamSubscribers.Set(float64(n))
	}
}
