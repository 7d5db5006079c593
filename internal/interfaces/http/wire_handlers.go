package http

import (
	adminHandlers "github.com/orris-inc/licenser/internal/interfaces/http/handlers/admin"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// allHandlers holds the admin API handlers.
type allHandlers struct {
	keyHandler      *adminHandlers.KeyHandler
	purchaseHandler *adminHandlers.PurchaseHandler
	releaseHandler  *adminHandlers.ReleaseHandler
}

func newHandlers(u *allUseCases, log logger.Interface) *allHandlers {
	return &allHandlers{
		keyHandler: adminHandlers.NewKeyHandler(u.createKey, u.getKey, u.updateKey, u.renewKey,
			u.listRenewals, u.listActivations, u.deactivate, log),
		purchaseHandler: adminHandlers.NewPurchaseHandler(u.issueKeys, u.getKey, log),
		releaseHandler: adminHandlers.NewReleaseHandler(u.createRelease, u.listReleases,
			u.publishRelease, u.archiveRelease, log),
	}
}
