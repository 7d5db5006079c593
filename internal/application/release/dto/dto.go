package dto

import (
	"time"

	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/shared/mapper"
)

type ReleaseDTO struct {
	ID        uint       `json:"id"`
	ProductID uint       `json:"product_id"`
	Version   string     `json:"version"`
	Download  string     `json:"download"`
	Status    string     `json:"status"`
	Type      string     `json:"type"`
	Changelog string     `json:"changelog"`
	StartedAt *time.Time `json:"started_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsPublic reports whether remote installations are offered the release.
func (d *ReleaseDTO) IsPublic() bool {
	return d.Status == vo.ReleaseStatusPublished.String() && vo.ReleaseType(d.Type).IsPublic()
}

func ToReleaseDTO(r *release.Release) *ReleaseDTO {
	if r == nil {
		return nil
	}
	return &ReleaseDTO{
		ID:        r.ID(),
		ProductID: r.ProductID(),
		Version:   r.Version(),
		Download:  r.Download(),
		Status:    r.Status().String(),
		Type:      r.Type().String(),
		Changelog: r.Changelog(),
		StartedAt: r.StartedAt(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

func ToReleaseDTOList(releases []*release.Release) []*ReleaseDTO {
	return mapper.MapSlicePtr(releases, ToReleaseDTO)
}

// ToCachedRelease converts a published release into its cache entry.
func ToCachedRelease(d *ReleaseDTO) *cache.CachedRelease {
	return &cache.CachedRelease{
		ID:        d.ID,
		ProductID: d.ProductID,
		Version:   d.Version,
		Download:  d.Download,
		Type:      d.Type,
		Changelog: d.Changelog,
		StartedAt: d.StartedAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// FromCachedRelease restores a cache entry. Only published releases are cached.
func FromCachedRelease(c *cache.CachedRelease) *ReleaseDTO {
	return &ReleaseDTO{
		ID:        c.ID,
		ProductID: c.ProductID,
		Version:   c.Version,
		Download:  c.Download,
		Status:    vo.ReleaseStatusPublished.String(),
		Type:      c.Type,
		Changelog: c.Changelog,
		StartedAt: c.StartedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
