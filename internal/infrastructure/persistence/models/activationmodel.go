package models

import (
	"time"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// ActivationModel is the persistence model for license activations.
type ActivationModel struct {
	ID            uint      `gorm:"primarykey"`
	LicenseKey    string    `gorm:"column:license_key;not null;size:128;uniqueIndex:idx_activation_key_location,priority:1"`
	Location      string    `gorm:"not null;size:255;uniqueIndex:idx_activation_key_location,priority:2"`
	Status        string    `gorm:"not null;size:20;default:active"`
	ActivatedAt   time.Time `gorm:"not null"`
	DeactivatedAt *time.Time
	ReleaseID     *uint `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (ActivationModel) TableName() string {
	return constants.TableLicenseActivations
}
