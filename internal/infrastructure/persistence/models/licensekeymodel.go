package models

import (
	"time"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// LicenseKeyModel is the persistence model for license keys. Keys are never
// hard-deleted.
type LicenseKeyModel struct {
	LicenseKey     string     `gorm:"column:license_key;primaryKey;size:128"`
	ProductID      uint       `gorm:"not null;index"`
	CustomerID     uint       `gorm:"not null;index"`
	TransactionID  uint       `gorm:"not null;index"`
	Status         string     `gorm:"not null;size:20;default:active;index:idx_license_keys_status_expires,priority:1"`
	MaxActivations int        `gorm:"not null;default:0"`
	Expires        *time.Time `gorm:"index:idx_license_keys_status_expires,priority:2"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (LicenseKeyModel) TableName() string {
	return constants.TableLicenseKeys
}
