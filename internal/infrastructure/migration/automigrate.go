package migration

import (
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the persistence models in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProductModel{},
		&models.CustomerModel{},
		&models.TransactionModel{},
		&models.LicenseKeyModel{},
		&models.ReleaseModel{},
		&models.ActivationModel{},
		&models.RenewalModel{},
		&models.ReleaseUpdateModel{},
	}
}
