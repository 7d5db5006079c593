package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// ProductModel mirrors a storefront product. License and Readme hold the
// JSON encoded product.LicenseConfig and product.Readme.
type ProductModel struct {
	ID          uint   `gorm:"primarykey;autoIncrement:false"`
	Name        string `gorm:"not null;size:200"`
	Slug        string `gorm:"size:200;index"`
	Description string `gorm:"type:text"`
	License     datatypes.JSON
	Readme      datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (ProductModel) TableName() string {
	return constants.TableProducts
}
