package admin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/utils"
)

type CreateKeyRequest struct {
	// Key is generated from the product's key type when empty
	Key           string     `json:"key" validate:"omitempty,max=128"`
	ProductID     uint       `json:"product_id" validate:"required"`
	CustomerID    uint       `json:"customer_id" validate:"required"`
	TransactionID uint       `json:"transaction_id" validate:"required"`
	Max           *int       `json:"max" validate:"omitempty,min=0"`
	Expires       *time.Time `json:"expires"`
	Status        string     `json:"status" validate:"omitempty,oneof=active expired disabled"`
}

type UpdateKeyRequest struct {
	Max          *int       `json:"max" validate:"omitempty,min=0"`
	Status       *string    `json:"status" validate:"omitempty,oneof=active expired disabled"`
	Expires      *time.Time `json:"expires"`
	NeverExpires bool       `json:"never_expires"`
}

type RenewKeyRequest struct {
	Expires       *time.Time `json:"expires"`
	Days          int        `json:"days" validate:"min=0"`
	TransactionID *uint      `json:"transaction_id" validate:"omitempty,gt=0"`
	Revenue       int64      `json:"revenue" validate:"min=0"`
}

type PurchaseCustomer struct {
	ID    uint   `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=255"`
}

// PurchaseRequest mirrors a completed storefront transaction.
type PurchaseRequest struct {
	TransactionID uint             `json:"transaction_id" validate:"required"`
	Total         int64            `json:"total" validate:"min=0"`
	Customer      PurchaseCustomer `json:"customer"`
	ProductIDs    []uint           `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}

type CreateReleaseRequest struct {
	Version   string `json:"version" validate:"required,max=64"`
	Download  string `json:"download" validate:"required,max=1024"`
	Type      string `json:"type" validate:"required,oneof=major minor security prerelease restricted"`
	Changelog string `json:"changelog"`
}

// bindJSON decodes and validates the request body into req.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return utils.ValidateStruct(req)
}
