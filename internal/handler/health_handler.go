// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/driver"
	"device-gateway/internal/pool"
	"device-gateway/internal/session"
	"device-gateway/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	registry  *driver.Registry
	pool      *pool.Pool
	sessions  *session.Manager
	config    *config.Config
	logger    *utils.ServiceLogger
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *driver.Registry, connPool *pool.Pool, sessions *session.Manager, cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		pool:      connPool,
		sessions:  sessions,
		config:    cfg,
		logger:    utils.NewServiceLogger(logger, "health-handler"),
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck reports service health plus gateway runtime state
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	drivers := h.registry.ListDrivers()

	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).String(),
		Checks:    make(map[string]CheckResult),
	}

	health.Checks["drivers"] = CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"registered": drivers,
			"count":      len(drivers),
		},
	}

	health.Checks["gateway"] = CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"pooled_connections": h.pool.Len(),
			"active_tasks":       h.sessions.Len(),
		},
	}

	if len(drivers) == 0 {
		health.Status = "unhealthy"
		health.Checks["drivers"] = CheckResult{
			Status:  "unhealthy",
			Message: "no drivers registered",
		}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// ReadinessCheck for Kubernetes readiness probe
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if len(h.registry.ListDrivers()) == 0 {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "not ready", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ready", nil)
}

// LivenessCheck for Kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	// Simple liveness check - service is alive if it can respond
	utils.SuccessResponse(c, http.StatusOK, "alive", nil)
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
