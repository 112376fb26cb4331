// internal/handler/health_handler_test.go
package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"device-gateway/internal/driver"
	"device-gateway/internal/pool"
	"device-gateway/internal/session"
)

func newHealthRouter(t *testing.T, registerDrivers bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testGatewayConfig()
	logger := zap.NewNop()

	connPool := pool.New(&cfg.Device, logger)
	sessions := session.NewManager(logger)
	registry := driver.NewRegistry(logger)
	if registerDrivers {
		require.NoError(t, driver.RegisterDefaultDrivers(registry, connPool, &cfg.Device, logger))
	}

	router := gin.New()
	handler := NewHealthHandler(registry, connPool, sessions, cfg, logger)
	handler.RegisterRoutes(router.Group(""))
	return router
}

func TestHealthEndpoints(t *testing.T) {
	router := newHealthRouter(t, true)

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/health", status: http.StatusOK, message: "healthy"},
		{path: "/ready", status: http.StatusOK, message: "ready"},
		{path: "/live", status: http.StatusOK, message: "alive"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, tt.status, w.Code, tt.path)
		assert.Contains(t, w.Body.String(), tt.message, tt.path)
	}
}

func TestHealthCheckReportsGatewayState(t *testing.T) {
	router := newHealthRouter(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, float64(6), health.Checks["drivers"].Data["count"])
	assert.Equal(t, float64(0), health.Checks["gateway"].Data["active_tasks"])
}

func TestHealthUnavailableWithoutDrivers(t *testing.T) {
	router := newHealthRouter(t, false)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}
