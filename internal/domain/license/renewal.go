package license

import (
	"fmt"
	"time"
)

// Renewal is an append-only record of a key's expiration being extended.
type Renewal struct {
	id            uint
	key           string
	renewedAt     time.Time
	keyExpiredAt  *time.Time
	transactionID *uint
	revenue       int64
}

// NewRenewal records a renewal of key. previousExpiry is the expiration
// before the extension; a nil transactionID marks a manual renewal.
// revenue is in minor currency units.
func NewRenewal(key string, previousExpiry *time.Time, transactionID *uint, revenue int64, renewedAt time.Time) (*Renewal, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if revenue < 0 {
		return nil, ErrInvalidRevenue
	}
	return &Renewal{
		key:           key,
		renewedAt:     renewedAt.UTC(),
		keyExpiredAt:  utcPtr(previousExpiry),
		transactionID: transactionID,
		revenue:       revenue,
	}, nil
}

// ReconstructRenewal rebuilds a renewal from persistence
func ReconstructRenewal(id uint, key string, renewedAt time.Time, keyExpiredAt *time.Time, transactionID *uint, revenue int64) (*Renewal, error) {
	if id == 0 {
		return nil, fmt.Errorf("renewal ID cannot be zero")
	}
	return &Renewal{
		id:            id,
		key:           key,
		renewedAt:     renewedAt,
		keyExpiredAt:  keyExpiredAt,
		transactionID: transactionID,
		revenue:       revenue,
	}, nil
}

func (r *Renewal) ID() uint {
	return r.id
}

func (r *Renewal) Key() string {
	return r.key
}

func (r *Renewal) RenewedAt() time.Time {
	return r.renewedAt
}

func (r *Renewal) KeyExpiredAt() *time.Time {
	return r.keyExpiredAt
}

func (r *Renewal) TransactionID() *uint {
	return r.transactionID
}

func (r *Renewal) Revenue() int64 {
	return r.revenue
}

func (r *Renewal) IsManual() bool {
	return r.transactionID == nil
}

// SetID sets the renewal ID (only for persistence layer use)
func (r *Renewal) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("renewal ID is already set")
	}
	r.id = id
	return nil
}
