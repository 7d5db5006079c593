package license

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
)

// MaxKeyLength bounds the stored key string.
const MaxKeyLength = 128

// Key is the license aggregate root. Its status is stored and kept in line
// with the expiration date by the expiry sweep.
type Key struct {
	key           string
	productID     uint
	customerID    uint
	transactionID uint
	status        vo.KeyStatus
	max           int
	expires       *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewKey creates a license key. An empty status defaults to active; max 0 means unlimited.
func NewKey(key string, productID, customerID, transactionID uint, max int, expires *time.Time, status vo.KeyStatus) (*Key, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if len(key) > MaxKeyLength {
		return nil, ErrKeyTooLong
	}
	if productID == 0 || customerID == 0 || transactionID == 0 {
		return nil, ErrInvalidOwner
	}
	if max < 0 {
		return nil, ErrInvalidMax
	}
	if status == "" {
		status = vo.KeyStatusActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	now := time.Now().UTC()
	return &Key{
		key:           key,
		productID:     productID,
		customerID:    customerID,
		transactionID: transactionID,
		status:        status,
		max:           max,
		expires:       utcPtr(expires),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructKey rebuilds a key from persistence
func ReconstructKey(
	key string,
	productID, customerID, transactionID uint,
	status vo.KeyStatus,
	max int,
	expires *time.Time,
	createdAt, updatedAt time.Time,
) (*Key, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return &Key{
		key:           key,
		productID:     productID,
		customerID:    customerID,
		transactionID: transactionID,
		status:        status,
		max:           max,
		expires:       expires,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (k *Key) Key() string {
	return k.key
}

func (k *Key) ProductID() uint {
	return k.productID
}

func (k *Key) CustomerID() uint {
	return k.customerID
}

func (k *Key) TransactionID() uint {
	return k.transactionID
}

func (k *Key) Status() vo.KeyStatus {
	return k.status
}

func (k *Key) Max() int {
	return k.max
}

func (k *Key) Expires() *time.Time {
	return k.expires
}

func (k *Key) CreatedAt() time.Time {
	return k.createdAt
}

func (k *Key) UpdatedAt() time.Time {
	return k.updatedAt
}

func (k *Key) IsActive() bool {
	return k.status.IsActive()
}

func (k *Key) IsUnlimited() bool {
	return k.max == 0
}

func (k *Key) NeverExpires() bool {
	return k.expires == nil
}

// CanActivate reports whether another location may be activated given the
// current number of active activations.
func (k *Key) CanActivate(activeCount int64) bool {
	return k.max == 0 || activeCount < int64(k.max)
}

// ExpiredAt reports whether the expiration date has passed at now.
func (k *Key) ExpiredAt(now time.Time) bool {
	return k.expires != nil && !k.expires.After(now)
}

// Expire moves an active key whose expiration has passed to expired.
func (k *Key) Expire(now time.Time) error {
	if k.status != vo.KeyStatusActive {
		return ErrInvalidTransition(k.status, vo.KeyStatusExpired)
	}
	if !k.ExpiredAt(now) {
		return fmt.Errorf("%w: key %s has not reached its expiration", ErrInvalidStatusTransition, k.key)
	}
	return k.transition(vo.KeyStatusExpired, now)
}

// Disable disables an active or expired key.
func (k *Key) Disable(now time.Time) error {
	return k.transition(vo.KeyStatusDisabled, now)
}

// Enable re-enables a disabled key. It lands on expired when the expiration already passed.
func (k *Key) Enable(now time.Time) error {
	if k.status != vo.KeyStatusDisabled {
		return ErrInvalidTransition(k.status, vo.KeyStatusActive)
	}
	target := vo.KeyStatusActive
	if k.ExpiredAt(now) {
		target = vo.KeyStatusExpired
	}
	return k.transition(target, now)
}

// Extend sets a new expiration, flips an expired key back to active and
// returns the renewal record capturing the previous expiration.
func (k *Key) Extend(newExpiration time.Time, transactionID *uint, revenue int64, now time.Time) (*Renewal, error) {
	if k.status == vo.KeyStatusDisabled {
		return nil, ErrKeyNotRenewable
	}
	if !newExpiration.After(now) {
		return nil, ErrInvalidExpiration
	}

	renewal, err := NewRenewal(k.key, k.expires, transactionID, revenue, now)
	if err != nil {
		return nil, err
	}

	exp := newExpiration.UTC()
	k.expires = &exp
	if k.status == vo.KeyStatusExpired {
		k.status = vo.KeyStatusActive
	}
	k.updatedAt = now
	return renewal, nil
}

// SetMax sets the activation limit; 0 means unlimited.
func (k *Key) SetMax(max int) error {
	if max < 0 {
		return ErrInvalidMax
	}
	k.max = max
	k.updatedAt = time.Now().UTC()
	return nil
}

// SetStatus stores status directly without applying transition rules.
func (k *Key) SetStatus(status vo.KeyStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	k.status = status
	k.updatedAt = time.Now().UTC()
	return nil
}

// SetExpires stores a new expiration; nil means the key never expires.
func (k *Key) SetExpires(expires *time.Time) {
	k.expires = utcPtr(expires)
	k.updatedAt = time.Now().UTC()
}

func (k *Key) transition(target vo.KeyStatus, now time.Time) error {
	if !k.status.CanTransitionTo(target) {
		return ErrInvalidTransition(k.status, target)
	}
	k.status = target
	k.updatedAt = now
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
