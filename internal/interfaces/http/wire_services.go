package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/licenser/internal/infrastructure/auth"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/infrastructure/config"
	"github.com/orris-inc/licenser/internal/infrastructure/metrics"
	"github.com/orris-inc/licenser/internal/infrastructure/permission"
	"github.com/orris-inc/licenser/internal/infrastructure/ratelimit"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/interfaces/http/endpoints"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// initInfrastructure sets up Redis, the release cache, signing services,
// the RBAC enforcer, metrics and the API rate limiter.
func (c *Container) initInfrastructure() error {
	c.metrics = metrics.New()

	c.redis = initRedis(c.cfg, c.log)
	if c.redis != nil {
		c.releaseCache = cache.NewRedisReleaseCache(c.redis, c.cfg.Release.CacheTTL, c.log)
	}

	limiterCfg := ratelimit.Config{Requests: c.cfg.RateLimit.Requests, Window: c.cfg.RateLimit.Window}
	if c.redis != nil {
		c.limiter = ratelimit.NewRedisLimiter(c.redis, limiterCfg)
	} else {
		c.limiter = ratelimit.NewLocalLimiter(limiterCfg)
	}

	var err error
	c.jwtSvc, err = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("failed to create jwt service: %w", err)
	}
	c.signer, err = auth.NewDownloadSigner(c.cfg.Download.SigningSecret, c.cfg.Download.LinkTTL())
	if err != nil {
		return fmt.Errorf("failed to create download signer: %w", err)
	}

	c.enforcer, err = permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := c.enforcer.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}

	return nil
}

// initRedis connects to Redis when enabled. A nil client disables the
// release cache and switches rate limiting to the in-process limiter.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, release cache off and local rate limiter in use")
		return nil
	}

	client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Warnw("redis unavailable, continuing without it", "error", err)
		return nil
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client
}

// initDispatch builds the remote API endpoint set and its dispatcher.
func (c *Container) initDispatch() {
	r := c.repos
	u := c.ucs
	links := endpoints.NewDownloadLinks(c.signer, c.cfg.Server.BaseURL, c.cfg.Server.APIPrefix)

	set := &endpoints.Set{
		Activate:   endpoints.NewActivateEndpoint(u.activate),
		Deactivate: endpoints.NewDeactivateEndpoint(u.deactivate),
		Info:       endpoints.NewInfoEndpoint(u.getKey, r.productRepo, r.customerRepo, r.transactionRepo),
		Version:    endpoints.NewVersionEndpoint(u.authenticate, u.latestRelease, links),
		Product:    endpoints.NewProductEndpoint(r.productRepo, u.latestRelease, u.changelog, u.renderer, links),
		Changelog:  endpoints.NewChangelogEndpoint(u.changelog),
		Download: endpoints.NewDownloadEndpoint(c.signer, u.authenticate, r.activationRepo, r.releaseRepo,
			u.recordUpdate, c.cfg.Download.StoragePath, c.log),
	}

	registry := dispatch.NewRegistry()
	set.Register(registry)

	c.dispatcher = dispatch.NewDispatcher(registry, u.authenticate, c.log,
		dispatch.WithObserver(c.metrics),
		dispatch.WithDebug(c.cfg.Server.IsDebug()),
	)
}
