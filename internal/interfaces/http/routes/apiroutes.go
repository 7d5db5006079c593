package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/licenser/internal/infrastructure/ratelimit"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/interfaces/http/middleware"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// APIRouteConfig holds dependencies for the remote license API.
type APIRouteConfig struct {
	Prefix     string
	Dispatcher *dispatch.Dispatcher
	Limiter    ratelimit.Limiter // nil disables rate limiting
	Logger     logger.Interface
}

// SetupAPIRoutes mounts the action dispatcher under /<prefix>/:action,
// with and without the trailing slash, for every method.
func SetupAPIRoutes(engine *gin.Engine, cfg *APIRouteConfig) {
	api := engine.Group("/" + strings.Trim(cfg.Prefix, "/"))
	if cfg.Limiter != nil {
		api.Use(middleware.RateLimit(cfg.Limiter, cfg.Logger))
	}
	{
		api.Any("/:action", cfg.Dispatcher.Handle)
		api.Any("/:action/", cfg.Dispatcher.Handle)
	}
}
