// internal/session/manager.go

// Package session tracks long-running polling tasks per device endpoint,
// enforcing that each endpoint streams to at most one client at a time.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"device-gateway/internal/model"
)

// task is one running polling loop bound to an endpoint
type task struct {
	endpoint model.Endpoint
	session  string
	cancel   context.CancelFunc
	done     chan struct{}
}

// Manager owns every active polling task. Start and Stop are safe for
// concurrent use from multiple client sessions.
type Manager struct {
	mu     sync.Mutex
	tasks  map[model.Endpoint]*task
	logger *zap.Logger
}

// NewManager creates a task manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		tasks:  make(map[model.Endpoint]*task),
		logger: logger,
	}
}

// Start launches run in its own goroutine bound to the endpoint. It fails
// with ErrDeviceBusy when the endpoint already owns a task. The task is
// removed automatically when run returns.
func (m *Manager) Start(endpoint model.Endpoint, session string, run func(ctx context.Context)) error {
	m.mu.Lock()
	if _, exists := m.tasks[endpoint]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", model.ErrDeviceBusy, endpoint.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		endpoint: endpoint,
		session:  session,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	m.tasks[endpoint] = t
	m.mu.Unlock()

	m.logger.Info("Polling task started",
		zap.String("device_addr", endpoint.Addr()),
		zap.String("session_id", session),
	)

	go func() {
		defer func() {
			m.remove(t)
			close(t.done)
		}()
		run(ctx)
	}()

	return nil
}

// Stop cancels the endpoint's task and waits for its goroutine to finish,
// so the caller can safely close the device connection afterwards. Returns
// false when the endpoint had no task.
func (m *Manager) Stop(endpoint model.Endpoint) bool {
	m.mu.Lock()
	t, ok := m.tasks[endpoint]
	m.mu.Unlock()

	if !ok {
		return false
	}

	t.cancel()
	<-t.done

	m.logger.Info("Polling task stopped",
		zap.String("device_addr", endpoint.Addr()),
		zap.String("session_id", t.session),
	)
	return true
}

// Active reports whether the endpoint currently owns a task
func (m *Manager) Active(endpoint model.Endpoint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[endpoint]
	return ok
}

// Owner returns the session id owning the endpoint's task, if any
func (m *Manager) Owner(endpoint model.Endpoint) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[endpoint]
	if !ok {
		return "", false
	}
	return t.session, true
}

// Len reports the number of active tasks
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// StopAll cancels every task and waits for each to finish. Used during
// shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	tasks := make([]*task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	m.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
		<-t.done
	}

	if len(tasks) > 0 {
		m.logger.Info("All polling tasks stopped", zap.Int("count", len(tasks)))
	}
}

// remove drops the task entry, but only if it is still the registered one
// for its endpoint.
func (m *Manager) remove(t *task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks[t.endpoint] == t {
		delete(m.tasks, t.endpoint)
	}
}
