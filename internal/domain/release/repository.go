package release

import (
	"context"

	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
)

// ReleaseFilter narrows release listings.
type ReleaseFilter struct {
	ProductID uint
	Status    vo.ReleaseStatus
	Types     []vo.ReleaseType
	Page      int
	PageSize  int
}

// Repository persists releases. Getters return nil, nil when no row matches.
type Repository interface {
	Create(ctx context.Context, release *Release) error
	Update(ctx context.Context, release *Release) error
	GetByID(ctx context.Context, id uint) (*Release, error)
	GetByVersion(ctx context.Context, productID uint, version string) (*Release, error)
	// ListPublished returns a product's published releases of the given types
	// (all types when empty), newest first by publish date.
	ListPublished(ctx context.Context, productID uint, types []vo.ReleaseType, limit int) ([]*Release, error)
	List(ctx context.Context, filter ReleaseFilter) ([]*Release, int64, error)
}

// UpdateRepository persists the update trail.
type UpdateRepository interface {
	Create(ctx context.Context, update *Update) error
	ListByActivation(ctx context.Context, activationID uint) ([]*Update, error)
}
