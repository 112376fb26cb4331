// internal/handler/client.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"device-gateway/internal/model"
)

// Client represents one connected WebSocket session
type Client struct {
	ID          string
	Connection  *websocket.Conn
	Send        chan []byte
	UserAgent   string
	RemoteAddr  string
	ConnectedAt time.Time

	mu     sync.Mutex
	owned  map[model.Endpoint]bool
	closed bool
}

// Own marks the endpoint's polling task as belonging to this session
func (c *Client) Own(endpoint model.Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owned[endpoint] = true
}

// Disown clears the ownership mark for the endpoint
func (c *Client) Disown(endpoint model.Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.owned, endpoint)
}

// OwnedEndpoints returns a snapshot of the endpoints this session owns
func (c *Client) OwnedEndpoints() []model.Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	endpoints := make([]model.Endpoint, 0, len(c.owned))
	for endpoint := range c.owned {
		endpoints = append(endpoints, endpoint)
	}
	return endpoints
}

// CloseSend closes the outbound channel exactly once. Queued messages are
// still flushed by the write pump before the socket closes.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// TrySend queues an outbound frame unless the session is closing
func (c *Client) TrySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}
