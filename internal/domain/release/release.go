// Package release models published product versions and the update trail of
// activations moving between them.
package release

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/version"
)

// Release is a version of a product distributed to activations.
type Release struct {
	id        uint
	productID uint
	version   string
	download  string
	status    vo.ReleaseStatus
	kind      vo.ReleaseType
	changelog string
	startedAt *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewRelease creates a draft release.
func NewRelease(productID uint, ver, download string, kind vo.ReleaseType, changelog string) (*Release, error) {
	if productID == 0 {
		return nil, ErrProductRequired
	}
	ver = strings.TrimSpace(ver)
	if ver == "" {
		return nil, ErrVersionRequired
	}
	if kind == "" {
		kind = vo.ReleaseTypeMinor
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReleaseType, kind)
	}

	now := time.Now().UTC()
	return &Release{
		productID: productID,
		version:   ver,
		download:  strings.TrimSpace(download),
		status:    vo.ReleaseStatusDraft,
		kind:      kind,
		changelog: changelog,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructRelease rebuilds a release from persistence
func ReconstructRelease(
	id, productID uint,
	ver, download string,
	status vo.ReleaseStatus,
	kind vo.ReleaseType,
	changelog string,
	startedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Release, error) {
	if id == 0 {
		return nil, fmt.Errorf("release ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid release status: %s", status)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReleaseType, kind)
	}
	return &Release{
		id:        id,
		productID: productID,
		version:   ver,
		download:  download,
		status:    status,
		kind:      kind,
		changelog: changelog,
		startedAt: startedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (r *Release) ID() uint {
	return r.id
}

func (r *Release) ProductID() uint {
	return r.productID
}

func (r *Release) Version() string {
	return r.version
}

func (r *Release) Download() string {
	return r.download
}

func (r *Release) Status() vo.ReleaseStatus {
	return r.status
}

func (r *Release) Type() vo.ReleaseType {
	return r.kind
}

func (r *Release) Changelog() string {
	return r.changelog
}

func (r *Release) StartedAt() *time.Time {
	return r.startedAt
}

func (r *Release) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Release) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Release) IsPublished() bool {
	return r.status.IsPublished()
}

// SetID sets the release ID after persistence
func (r *Release) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("release ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("release ID cannot be zero")
	}
	r.id = id
	return nil
}

// Publish makes a draft release available. A release without a download
// cannot be published.
func (r *Release) Publish(now time.Time) error {
	if !r.status.CanTransitionTo(vo.ReleaseStatusPublished) {
		return ErrInvalidTransition(r.status, vo.ReleaseStatusPublished)
	}
	if r.download == "" {
		return ErrDownloadRequired
	}
	started := now.UTC()
	r.status = vo.ReleaseStatusPublished
	r.startedAt = &started
	r.updatedAt = started
	return nil
}

func (r *Release) Archive(now time.Time) error {
	if !r.status.CanTransitionTo(vo.ReleaseStatusArchived) {
		return ErrInvalidTransition(r.status, vo.ReleaseStatusArchived)
	}
	r.status = vo.ReleaseStatusArchived
	r.updatedAt = now.UTC()
	return nil
}

// UpdateDetails edits a draft's download, type and changelog.
func (r *Release) UpdateDetails(download *string, kind *vo.ReleaseType, changelog *string) error {
	if kind != nil {
		if !kind.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidReleaseType, *kind)
		}
		r.kind = *kind
	}
	if download != nil {
		r.download = strings.TrimSpace(*download)
	}
	if changelog != nil {
		r.changelog = *changelog
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// IsNewerThan reports whether r's version is greater than other's. Versions
// that are not semantic versions are never newer.
func (r *Release) IsNewerThan(other *Release) bool {
	if other == nil {
		return true
	}
	cmp, ok := version.Compare(r.version, other.version)
	return ok && cmp > 0
}

// ValidateUpgradePath checks that ver is greater than the newest published
// version. Non-semantic versions skip the comparison.
func ValidateUpgradePath(ver string, newest *Release) error {
	if newest == nil || !version.IsValid(ver) || !version.IsValid(newest.version) {
		return nil
	}
	if cmp, _ := version.Compare(ver, newest.version); cmp <= 0 {
		return fmt.Errorf("%w: %s is not newer than %s", ErrInvalidUpgradePath, ver, newest.version)
	}
	return nil
}

// HighestVersion returns the release with the greatest semantic version, or
// nil when none of releases carries one.
func HighestVersion(releases []*Release) *Release {
	var best *Release
	for _, r := range releases {
		if !version.IsValid(r.version) {
			continue
		}
		if best == nil || r.IsNewerThan(best) {
			best = r
		}
	}
	return best
}
