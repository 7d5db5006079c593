package dto

import (
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/mapper"
)

// KeyDTO is the admin representation of a license key.
type KeyDTO struct {
	Key           string     `json:"key"`
	Status        string     `json:"status"`
	Max           int        `json:"max"`
	Activations   int64      `json:"activations"`
	Expires       *time.Time `json:"expires"`
	ProductID     uint       `json:"product_id"`
	CustomerID    uint       `json:"customer_id"`
	TransactionID uint       `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ActivationDTO struct {
	ID            uint       `json:"id"`
	Key           string     `json:"key"`
	Location      string     `json:"location"`
	Status        string     `json:"status"`
	ActivatedAt   time.Time  `json:"activated_at"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
	ReleaseID     *uint      `json:"release_id"`
}

type RenewalDTO struct {
	ID            uint       `json:"id"`
	Key           string     `json:"key"`
	RenewedAt     time.Time  `json:"renewed_at"`
	KeyExpiredAt  *time.Time `json:"key_expired_at"`
	TransactionID *uint      `json:"transaction_id"`
	Revenue       int64      `json:"revenue"`
	Manual        bool       `json:"manual"`
}

// ToKeyDTO converts a key and its active activation count.
func ToKeyDTO(key *license.Key, activeCount int64) *KeyDTO {
	if key == nil {
		return nil
	}
	return &KeyDTO{
		Key:           key.Key(),
		Status:        key.Status().String(),
		Max:           key.Max(),
		Activations:   activeCount,
		Expires:       key.Expires(),
		ProductID:     key.ProductID(),
		CustomerID:    key.CustomerID(),
		TransactionID: key.TransactionID(),
		CreatedAt:     key.CreatedAt(),
		UpdatedAt:     key.UpdatedAt(),
	}
}

func ToActivationDTO(a *license.Activation) *ActivationDTO {
	if a == nil {
		return nil
	}
	return &ActivationDTO{
		ID:            a.ID(),
		Key:           a.Key(),
		Location:      a.Location(),
		Status:        a.Status().String(),
		ActivatedAt:   a.ActivatedAt(),
		DeactivatedAt: a.DeactivatedAt(),
		ReleaseID:     a.ReleaseID(),
	}
}

func ToActivationDTOList(activations []*license.Activation) []*ActivationDTO {
	return mapper.MapSlicePtr(activations, ToActivationDTO)
}

func ToRenewalDTO(r *license.Renewal) *RenewalDTO {
	if r == nil {
		return nil
	}
	return &RenewalDTO{
		ID:            r.ID(),
		Key:           r.Key(),
		RenewedAt:     r.RenewedAt(),
		KeyExpiredAt:  r.KeyExpiredAt(),
		TransactionID: r.TransactionID(),
		Revenue:       r.Revenue(),
		Manual:        r.IsManual(),
	}
}

func ToRenewalDTOList(renewals []*license.Renewal) []*RenewalDTO {
	return mapper.MapSlicePtr(renewals, ToRenewalDTO)
}
