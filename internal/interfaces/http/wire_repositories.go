package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/infrastructure/repository"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// repositories holds all repository instances used by the container.
type repositories struct {
	keyRepo         license.KeyRepository
	activationRepo  license.ActivationRepository
	renewalRepo     license.RenewalRepository
	productRepo     product.Repository
	customerRepo    commerce.CustomerRepository
	transactionRepo commerce.TransactionRepository
	releaseRepo     release.Repository
	updateRepo      release.UpdateRepository
	txManager       *db.TransactionManager
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		keyRepo:         repository.NewLicenseKeyRepository(gdb, log),
		activationRepo:  repository.NewActivationRepository(gdb, log),
		renewalRepo:     repository.NewRenewalRepository(gdb, log),
		productRepo:     repository.NewProductRepository(gdb, log),
		customerRepo:    repository.NewCustomerRepository(gdb, log),
		transactionRepo: repository.NewTransactionRepository(gdb, log),
		releaseRepo:     repository.NewReleaseRepository(gdb, log),
		updateRepo:      repository.NewReleaseUpdateRepository(gdb, log),
		txManager:       db.NewTransactionManager(gdb),
	}
}
