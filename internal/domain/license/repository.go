package license

import (
	"context"
	"time"

	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
)

// KeyFilter narrows key listings for admin tooling.
type KeyFilter struct {
	ProductID     uint
	CustomerID    uint
	TransactionID uint
	Status        vo.KeyStatus
	Page          int
	PageSize      int
}

// KeyRepository persists license keys. Getters return nil, nil when no row matches.
type KeyRepository interface {
	Create(ctx context.Context, key *Key) error
	GetByKey(ctx context.Context, key string) (*Key, error)
	// GetByKeyForUpdate reads the key and locks its row until the surrounding
	// transaction ends.
	GetByKeyForUpdate(ctx context.Context, key string) (*Key, error)
	Update(ctx context.Context, key *Key) error
	List(ctx context.Context, filter KeyFilter) ([]*Key, int64, error)
	// ListActiveExpiringBefore returns active keys whose expiration is at or before cutoff.
	ListActiveExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Key, error)
	// ListActiveExpiringBetween returns active keys expiring in (from, to], ordered by expiration.
	ListActiveExpiringBetween(ctx context.Context, from, to time.Time, offset, limit int) ([]*Key, error)
}

// ActivationRepository persists activations.
type ActivationRepository interface {
	// Activate stores activation for key atomically with the activation limit check.
	// A (key, location) uniqueness collision reactivates the existing row.
	Activate(ctx context.Context, key *Key, activation *Activation) (*ActivationResult, error)
	GetByID(ctx context.Context, id uint) (*Activation, error)
	GetByLocation(ctx context.Context, key, location string) (*Activation, error)
	ListByKey(ctx context.Context, key string, status *vo.ActivationStatus) ([]*Activation, error)
	CountActiveByKey(ctx context.Context, key string) (int64, error)
	Update(ctx context.Context, activation *Activation) error
}

// RenewalRepository persists the renewal audit trail.
type RenewalRepository interface {
	Create(ctx context.Context, renewal *Renewal) error
	ListByKey(ctx context.Context, key string) ([]*Renewal, error)
}
