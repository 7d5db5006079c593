package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/licenser/internal/infrastructure/permission"
	adminHandlers "github.com/orris-inc/licenser/internal/interfaces/http/handlers/admin"
	"github.com/orris-inc/licenser/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	KeyHandler           *adminHandlers.KeyHandler
	PurchaseHandler      *adminHandlers.PurchaseHandler
	ReleaseHandler       *adminHandlers.ReleaseHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures the admin API under /admin.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	perm := cfg.PermissionMiddleware.RequirePermission

	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())

	admin.POST("/purchases", perm(permission.ResourcePurchase, permission.ActionCreate), cfg.PurchaseHandler.RecordPurchase)

	keys := admin.Group("/keys")
	{
		keys.POST("", perm(permission.ResourceKey, permission.ActionCreate), cfg.KeyHandler.CreateKey)
		keys.GET("/:key", perm(permission.ResourceKey, permission.ActionRead), cfg.KeyHandler.GetKey)
		keys.PATCH("/:key", perm(permission.ResourceKey, permission.ActionUpdate), cfg.KeyHandler.UpdateKey)
		keys.POST("/:key/renew", perm(permission.ResourceRenewal, permission.ActionCreate), cfg.KeyHandler.RenewKey)
		keys.GET("/:key/renewals", perm(permission.ResourceRenewal, permission.ActionRead), cfg.KeyHandler.ListRenewals)
		keys.GET("/:key/activations", perm(permission.ResourceActivation, permission.ActionRead), cfg.KeyHandler.ListActivations)
	}

	admin.DELETE("/activations/:id", perm(permission.ResourceActivation, permission.ActionDeactivate), cfg.KeyHandler.DeleteActivation)

	products := admin.Group("/products")
	{
		products.POST("/:id/releases", perm(permission.ResourceRelease, permission.ActionCreate), cfg.ReleaseHandler.CreateRelease)
		products.GET("/:id/releases", perm(permission.ResourceRelease, permission.ActionRead), cfg.ReleaseHandler.ListReleases)
	}

	releases := admin.Group("/releases")
	{
		releases.POST("/:id/publish", perm(permission.ResourceRelease, permission.ActionPublish), cfg.ReleaseHandler.PublishRelease)
		releases.POST("/:id/archive", perm(permission.ResourceRelease, permission.ActionUpdate), cfg.ReleaseHandler.ArchiveRelease)
	}
}
