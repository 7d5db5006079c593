package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/infrastructure/auth"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/infrastructure/config"
	"github.com/orris-inc/licenser/internal/infrastructure/metrics"
	"github.com/orris-inc/licenser/internal/infrastructure/permission"
	"github.com/orris-inc/licenser/internal/infrastructure/ratelimit"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/interfaces/http/middleware"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases and handlers
// of the HTTP server and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Cross-cutting services
	metrics      *metrics.Metrics
	jwtSvc       *auth.JWTService
	signer       *auth.DownloadSigner
	enforcer     *permission.Enforcer
	releaseCache cache.ReleaseCache
	limiter      ratelimit.Limiter

	dispatcher *dispatch.Dispatcher

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, signing, RBAC, metrics
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Repositories and use cases
	c.repos = newRepositories(db, log)
	c.ucs = newUseCases(c)

	// Section 3: Remote API endpoints and dispatcher
	c.initDispatch()

	// Section 4: Admin handlers and middlewares
	c.hdlrs = newHandlers(c.ucs, log)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)

	return c, nil
}
