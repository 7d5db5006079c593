package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/licenser/internal/infrastructure/ratelimit"
	"github.com/orris-inc/licenser/internal/interfaces/http/middleware"
	"github.com/orris-inc/licenser/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.healthCheck)
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	var limiter ratelimit.Limiter
	if c.cfg.RateLimit.Enabled {
		limiter = c.limiter
	}
	routes.SetupAPIRoutes(c.engine, &routes.APIRouteConfig{
		Prefix:     c.cfg.Server.APIPrefix,
		Dispatcher: c.dispatcher,
		Limiter:    limiter,
		Logger:     c.log,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		KeyHandler:           c.hdlrs.keyHandler,
		PurchaseHandler:      c.hdlrs.purchaseHandler,
		ReleaseHandler:       c.hdlrs.releaseHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (c *Container) healthCheck(ctx *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "healthy", "service": "licenser"}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "unreachable"
	}
	if c.redis != nil {
		if err := c.redis.Ping(pingCtx).Err(); err != nil {
			body["redis"] = "unreachable"
		}
	}

	ctx.JSON(status, body)
}

// GetEngine returns the gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Run starts the HTTP server
func (c *Container) Run(addr string) error {
	return c.engine.Run(addr)
}

// Shutdown releases the connections owned by the container.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		} else {
			c.log.Infow("redis client closed")
		}
	}
}
