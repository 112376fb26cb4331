// internal/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/driver"
	"device-gateway/internal/handler"
	"device-gateway/internal/middleware"
	"device-gateway/internal/pool"
	"device-gateway/internal/session"
	"device-gateway/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config   *config.Config
	logger   *zap.Logger
	registry *driver.Registry
	pool     *pool.Pool
	sessions *session.Manager
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	registry *driver.Registry,
	connPool *pool.Pool,
	sessions *session.Manager,
) *Router {
	return &Router{
		config:   cfg,
		logger:   logger,
		registry: registry,
		pool:     connPool,
		sessions: sessions,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	// Set Gin mode
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin engine
	router := gin.New()

	// Add middleware
	r.addMiddleware(router)

	// Add routes
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(middleware.RecoveryMiddleware(r.logger))

	// Request ID middleware
	router.Use(middleware.RequestIDMiddleware())

	// Logging middleware
	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	// CORS middleware
	router.Use(middleware.CORSMiddleware(&r.config.Server))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	// Create handlers
	healthHandler := handler.NewHealthHandler(r.registry, r.pool, r.sessions, r.config, r.logger)
	gatewayHandler := handler.NewGatewayHandler(r.registry, r.pool, r.sessions, r.config, r.logger)

	// Health check routes
	healthHandler.RegisterRoutes(router.Group(""))

	// Gateway WebSocket endpoint
	router.GET("/ws", gatewayHandler.HandleConnection)

	r.logger.Info("All routes configured successfully")
}
