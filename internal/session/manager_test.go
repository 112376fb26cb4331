// internal/session/manager_test.go
package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"device-gateway/internal/model"
)

var testEndpoint = model.Endpoint{Host: "10.0.0.5", Port: 4001}

func TestStartRejectsBusyEndpoint(t *testing.T) {
	m := NewManager(zap.NewNop())

	release := make(chan struct{})
	err := m.Start(testEndpoint, "s1", func(ctx context.Context) {
		<-release
	})
	require.NoError(t, err)
	defer close(release)

	err = m.Start(testEndpoint, "s2", func(ctx context.Context) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDeviceBusy)

	assert.True(t, m.Active(testEndpoint))
	owner, ok := m.Owner(testEndpoint)
	require.True(t, ok)
	assert.Equal(t, "s1", owner)
}

func TestStopCancelsAndWaits(t *testing.T) {
	m := NewManager(zap.NewNop())

	var finished atomic.Bool
	err := m.Start(testEndpoint, "s1", func(ctx context.Context) {
		<-ctx.Done()
		finished.Store(true)
	})
	require.NoError(t, err)

	require.True(t, m.Stop(testEndpoint))

	// Stop returns only after the task goroutine finished
	assert.True(t, finished.Load())
	assert.False(t, m.Active(testEndpoint))
}

func TestStopIdleEndpointReturnsFalse(t *testing.T) {
	m := NewManager(zap.NewNop())
	assert.False(t, m.Stop(testEndpoint))
}

func TestTaskSelfRemovesOnReturn(t *testing.T) {
	m := NewManager(zap.NewNop())

	done := make(chan struct{})
	err := m.Start(testEndpoint, "s1", func(ctx context.Context) {
		close(done)
	})
	require.NoError(t, err)
	<-done

	require.Eventually(t, func() bool {
		return !m.Active(testEndpoint)
	}, time.Second, 5*time.Millisecond)

	// The endpoint is free for the next session
	err = m.Start(testEndpoint, "s2", func(ctx context.Context) {})
	assert.NoError(t, err)
}

func TestStopAll(t *testing.T) {
	m := NewManager(zap.NewNop())

	endpoints := []model.Endpoint{
		{Host: "10.0.0.1", Port: 4001},
		{Host: "10.0.0.2", Port: 4001},
		{Host: "10.0.0.3", Port: 9100},
	}
	for i, endpoint := range endpoints {
		err := m.Start(endpoint, "s1", func(ctx context.Context) {
			<-ctx.Done()
		})
		require.NoError(t, err, i)
	}
	require.Equal(t, 3, m.Len())

	m.StopAll()
	assert.Equal(t, 0, m.Len())
}
