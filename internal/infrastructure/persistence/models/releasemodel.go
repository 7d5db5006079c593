package models

import (
	"time"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// ReleaseModel is the persistence model for product releases.
type ReleaseModel struct {
	ID        uint       `gorm:"primarykey"`
	ProductID uint       `gorm:"not null;uniqueIndex:idx_release_product_version,priority:1;index:idx_release_product_status,priority:1"`
	Version   string     `gorm:"not null;size:64;uniqueIndex:idx_release_product_version,priority:2"`
	Download  string     `gorm:"size:512"`
	Status    string     `gorm:"not null;size:20;default:draft;index:idx_release_product_status,priority:2"`
	Type      string     `gorm:"not null;size:20;default:minor"`
	Changelog string     `gorm:"type:text"`
	StartedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ReleaseModel) TableName() string {
	return constants.TableReleases
}

// ReleaseUpdateModel is the persistence model for activation updates.
type ReleaseUpdateModel struct {
	ID              uint      `gorm:"primarykey"`
	ActivationID    uint      `gorm:"not null;index"`
	ReleaseID       uint      `gorm:"not null;index"`
	PreviousVersion string    `gorm:"size:64"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ReleaseUpdateModel) TableName() string {
	return constants.TableReleaseUpdates
}
