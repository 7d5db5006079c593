package release

import (
	"fmt"
	"time"
)

// Update records an activation moving to a release. Updates are append-only.
type Update struct {
	id              uint
	activationID    uint
	releaseID       uint
	previousVersion string
	updatedAt       time.Time
}

func NewUpdate(activationID, releaseID uint, previousVersion string, now time.Time) (*Update, error) {
	if activationID == 0 || releaseID == 0 {
		return nil, fmt.Errorf("activation and release are required")
	}
	return &Update{
		activationID:    activationID,
		releaseID:       releaseID,
		previousVersion: previousVersion,
		updatedAt:       now.UTC(),
	}, nil
}

// ReconstructUpdate rebuilds an update from persistence
func ReconstructUpdate(id, activationID, releaseID uint, previousVersion string, updatedAt time.Time) *Update {
	return &Update{
		id:              id,
		activationID:    activationID,
		releaseID:       releaseID,
		previousVersion: previousVersion,
		updatedAt:       updatedAt,
	}
}

func (u *Update) ID() uint {
	return u.id
}

func (u *Update) ActivationID() uint {
	return u.activationID
}

func (u *Update) ReleaseID() uint {
	return u.releaseID
}

func (u *Update) PreviousVersion() string {
	return u.previousVersion
}

func (u *Update) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *Update) SetID(id uint) {
	u.id = id
}
