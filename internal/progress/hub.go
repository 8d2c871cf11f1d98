package progress

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// transportClient abstracts the two wire transports a progress observer
// can connect over (grounded on internal/api/server.go's transportClient).
type transportClient interface {
	Send(Message) error
	Close() error
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}

type grpcClient struct {
	stream Progress_StreamServer
	mu     sync.Mutex
}

func (c *grpcClient) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream.Send(&msg)
}

func (c *grpcClient) Close() error {
	return nil // the gRPC stream ends when the client disconnects or its context is cancelled
}

// Hub fans every Notify call out to all currently connected observers,
// over either transport, dropping clients whose Send fails.
type Hub struct {
	mu      sync.Mutex
	clients map[transportClient]string // value is the client's log-correlation id
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[transportClient]string)}
}

// Notify implements ports.ProgressNotifier.
func (h *Hub) Notify(_ context.Context, stage string, fraction float64, message string) {
	h.broadcast(Message{Stage: stage, Fraction: fraction, Text: message})
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c, id := range h.clients {
		if err := c.Send(msg); err != nil {
			log.Printf("[progress] dropping client %s after send error: %v", id, err)
			c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) register(c transportClient) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = id
	log.Printf("[progress] client %s connected (%d total)", id, len(h.clients))
	return id
}

func (h *Hub) unregister(c transportClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.clients[c]
	delete(h.clients, c)
	c.Close()
	log.Printf("[progress] client %s disconnected", id)
}

// ServeWebSocket upgrades an HTTP request to a WebSocket and registers
// the connection as a progress observer until it disconnects.
func (h *Hub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[progress] websocket upgrade failed: %v", err)
		return
	}
	client := &wsClient{conn: conn}
	h.register(client)
	defer h.unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
