package license

import (
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound             = errors.New("license key not found")
	ErrKeyRequired             = errors.New("license key is required")
	ErrKeyTooLong              = errors.New("license key is too long")
	ErrKeyNotRenewable         = errors.New("license key cannot be renewed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidMax              = errors.New("max activations cannot be negative")
	ErrInvalidExpiration       = errors.New("expiration must be in the future")
	ErrInvalidOwner            = errors.New("product, customer and transaction are required")
	ErrActivationNotFound      = errors.New("activation not found")
	ErrActivationNotActive     = errors.New("activation is not active")
	ErrMaxActivations          = errors.New("max activations reached")
	ErrInvalidLocation         = errors.New("invalid location")
	ErrInvalidRevenue          = errors.New("revenue cannot be negative")
)

func ErrInvalidTransition(from, to fmt.Stringer) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
