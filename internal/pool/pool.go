// internal/pool/pool.go
package pool

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/model"
	"device-gateway/internal/utils"
)

// entry guards one endpoint's connection. The entry mutex serializes
// dialing and closing per endpoint, so a slow dial to one device never
// blocks exchanges with any other. Entries outlive their connections:
// they double as the stable per-endpoint lock and a device fleet has a
// bounded set of endpoints.
type entry struct {
	mu      sync.Mutex
	conn    net.Conn
	session string
}

// Pool keeps at most one open TCP connection per device endpoint so that
// repeated commands against the same scale or printer reuse the socket
// instead of reconnecting for every exchange. The pool-wide mutex only
// guards the entry map; all network I/O happens under the entry mutex.
type Pool struct {
	mu      sync.Mutex
	entries map[model.Endpoint]*entry
	config  *config.DeviceConfig
	logger  *zap.Logger
}

// New creates a connection pool
func New(cfg *config.DeviceConfig, logger *zap.Logger) *Pool {
	return &Pool{
		entries: make(map[model.Endpoint]*entry),
		config:  cfg,
		logger:  logger,
	}
}

// entryFor returns the endpoint's entry, creating it on first use
func (p *Pool) entryFor(endpoint model.Endpoint) *entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[endpoint]
	if !ok {
		e = &entry{}
		p.entries[endpoint] = e
	}
	return e
}

// Get returns the pooled connection for the endpoint, or nil when none is
// open.
func (p *Pool) Get(endpoint model.Endpoint) net.Conn {
	p.mu.Lock()
	e, ok := p.entries[endpoint]
	p.mu.Unlock()

	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}

// GetOrCreate returns the pooled connection for the endpoint, dialing a
// new one when necessary. Dialing is retried up to the configured attempt
// count; the last dial error is wrapped in ErrConnect.
func (p *Pool) GetOrCreate(ctx context.Context, endpoint model.Endpoint, sessionID string) (net.Conn, error) {
	e := p.entryFor(endpoint)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil {
		return e.conn, nil
	}

	conn, err := p.dial(ctx, endpoint, sessionID)
	if err != nil {
		return nil, err
	}

	e.conn = conn
	e.session = sessionID
	return conn, nil
}

// dial connects to the endpoint with a bounded timeout per attempt.
// Caller holds the endpoint's entry mutex, never the pool mutex.
func (p *Pool) dial(ctx context.Context, endpoint model.Endpoint, sessionID string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: p.config.ConnectTimeout}
	logger := p.endpointLogger(endpoint, sessionID)

	var lastErr error
	for attempt := 1; attempt <= p.config.ConnectAttempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", endpoint.Addr())
		if err == nil {
			logger.Info("Device connection opened", zap.Int("attempt", attempt))
			return conn, nil
		}

		lastErr = err
		logger.Warn("Device connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", model.ErrConnect, endpoint.Addr(), lastErr)
}

// Close closes and removes the pooled connection for the endpoint. Closing
// an endpoint that has no pooled connection is a no-op.
func (p *Pool) Close(endpoint model.Endpoint, sessionID string) {
	p.mu.Lock()
	e, ok := p.entries[endpoint]
	p.mu.Unlock()

	if !ok {
		return
	}

	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.session = ""
	e.mu.Unlock()

	if conn == nil {
		return
	}

	p.closeConn(conn, endpoint, sessionID)
}

// CloseAll closes every pooled connection. Used during shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	entries := make(map[model.Endpoint]*entry, len(p.entries))
	for endpoint, e := range p.entries {
		entries[endpoint] = e
	}
	p.mu.Unlock()

	closed := 0
	for endpoint, e := range entries {
		e.mu.Lock()
		conn := e.conn
		session := e.session
		e.conn = nil
		e.session = ""
		e.mu.Unlock()

		if conn == nil {
			continue
		}

		p.closeConn(conn, endpoint, session)
		closed++
	}

	if closed > 0 {
		p.logger.Info("All device connections closed", zap.Int("count", closed))
	}
}

// closeConn closes a connection taken out of its entry. Runs outside both
// mutexes; Close on a TCP conn can block briefly.
func (p *Pool) closeConn(conn net.Conn, endpoint model.Endpoint, sessionID string) {
	logger := p.endpointLogger(endpoint, sessionID)

	conn.SetDeadline(time.Now())
	if err := conn.Close(); err != nil {
		logger.Warn("Device connection close error", zap.Error(err))
		return
	}

	logger.Info("Device connection closed")
}

// endpointLogger carries the endpoint and owning session on every
// open/close transition.
func (p *Pool) endpointLogger(endpoint model.Endpoint, sessionID string) *zap.Logger {
	return utils.LoggerWithSessionID(p.logger, sessionID).With(
		zap.String("device_addr", endpoint.Addr()),
	)
}

// Len reports the number of pooled connections
func (p *Pool) Len() int {
	p.mu.Lock()
	entries := make([]*entry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, e)
	}
	p.mu.Unlock()

	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.conn != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
