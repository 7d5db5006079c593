package license

import (
	"crypto/subtle"
	"fmt"
	"time"

	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
)

// ActivationOutcome is the result of activating a location on a key.
type ActivationOutcome int

const (
	// OutcomeCreated means a new activation row was stored
	OutcomeCreated ActivationOutcome = iota + 1
	// OutcomeReactivated means the location was already known for the key and is active again
	OutcomeReactivated
	// OutcomeMaxReached means the key has no free activation slot
	OutcomeMaxReached
)

func (o ActivationOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReactivated:
		return "reactivated"
	case OutcomeMaxReached:
		return "max_reached"
	default:
		return "unknown"
	}
}

// ActivationResult pairs an outcome with the activation it produced.
// Activation is nil when the outcome is OutcomeMaxReached.
type ActivationResult struct {
	Outcome    ActivationOutcome
	Activation *Activation
}

// Activation binds one install location to a key.
type Activation struct {
	id            uint
	key           string
	location      string
	status        vo.ActivationStatus
	activatedAt   time.Time
	deactivatedAt *time.Time
	releaseID     *uint
}

// NewActivation creates an active activation for the normalized form of rawLocation.
func NewActivation(key, rawLocation string, activatedAt time.Time, releaseID *uint) (*Activation, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	location, err := NormalizeLocation(rawLocation)
	if err != nil {
		return nil, err
	}
	if activatedAt.IsZero() {
		activatedAt = time.Now()
	}

	return &Activation{
		key:         key,
		location:    location,
		status:      vo.ActivationStatusActive,
		activatedAt: activatedAt.UTC(),
		releaseID:   releaseID,
	}, nil
}

// ReconstructActivation rebuilds an activation from persistence
func ReconstructActivation(
	id uint,
	key, location string,
	status vo.ActivationStatus,
	activatedAt time.Time,
	deactivatedAt *time.Time,
	releaseID *uint,
) (*Activation, error) {
	if id == 0 {
		return nil, fmt.Errorf("activation ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return &Activation{
		id:            id,
		key:           key,
		location:      location,
		status:        status,
		activatedAt:   activatedAt,
		deactivatedAt: deactivatedAt,
		releaseID:     releaseID,
	}, nil
}

func (a *Activation) ID() uint {
	return a.id
}

func (a *Activation) Key() string {
	return a.key
}

func (a *Activation) Location() string {
	return a.location
}

func (a *Activation) Status() vo.ActivationStatus {
	return a.status
}

func (a *Activation) ActivatedAt() time.Time {
	return a.activatedAt
}

func (a *Activation) DeactivatedAt() *time.Time {
	return a.deactivatedAt
}

func (a *Activation) ReleaseID() *uint {
	return a.releaseID
}

func (a *Activation) IsActive() bool {
	return a.status.IsActive()
}

// SetID sets the activation ID (only for persistence layer use)
func (a *Activation) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("activation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("activation ID cannot be zero")
	}
	a.id = id
	return nil
}

// BelongsTo reports whether the activation is owned by key.
func (a *Activation) BelongsTo(key string) bool {
	return subtle.ConstantTimeCompare([]byte(a.key), []byte(key)) == 1
}

// Deactivate releases the activation slot.
func (a *Activation) Deactivate(now time.Time) error {
	if a.status != vo.ActivationStatusActive {
		return ErrActivationNotActive
	}
	at := now.UTC()
	a.status = vo.ActivationStatusDeactivated
	a.deactivatedAt = &at
	return nil
}

// Reactivate marks the activation active again with a fresh activation time.
func (a *Activation) Reactivate(now time.Time) {
	a.status = vo.ActivationStatusActive
	a.deactivatedAt = nil
	a.activatedAt = now.UTC()
}

// SetRelease records the release this activation last updated to.
func (a *Activation) SetRelease(releaseID uint) {
	id := releaseID
	a.releaseID = &id
}
