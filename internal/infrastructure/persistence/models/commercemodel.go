package models

import (
	"time"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// CustomerModel mirrors a storefront customer.
type CustomerModel struct {
	ID        uint   `gorm:"primarykey;autoIncrement:false"`
	Email     string `gorm:"not null;size:255;index"`
	Name      string `gorm:"size:200"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (CustomerModel) TableName() string {
	return constants.TableCustomers
}

// TransactionModel mirrors a completed storefront purchase.
type TransactionModel struct {
	ID         uint `gorm:"primarykey;autoIncrement:false"`
	CustomerID uint `gorm:"not null;index"`
	// Total is stored in minor currency units.
	Total     int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (TransactionModel) TableName() string {
	return constants.TableTransactions
}
