package models

import (
	"time"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// RenewalModel is the persistence model for the key renewal audit trail.
type RenewalModel struct {
	ID            uint      `gorm:"primarykey"`
	LicenseKey    string    `gorm:"column:license_key;not null;size:128;index"`
	RenewedAt     time.Time `gorm:"not null"`
	KeyExpiredAt  *time.Time
	TransactionID *uint
	// Revenue is stored in minor currency units.
	Revenue int64 `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (RenewalModel) TableName() string {
	return constants.TableLicenseRenewals
}
