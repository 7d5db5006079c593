package release

import (
	"errors"
	"fmt"
)

var (
	ErrReleaseNotFound         = errors.New("release not found")
	ErrVersionRequired         = errors.New("version is required")
	ErrProductRequired         = errors.New("product is required")
	ErrDownloadRequired        = errors.New("a download is required to publish a release")
	ErrInvalidReleaseType      = errors.New("invalid release type")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidUpgradePath      = errors.New("invalid upgrade path")
	ErrDuplicateVersion        = errors.New("release version already exists")
)

func ErrInvalidTransition(from, to fmt.Stringer) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
