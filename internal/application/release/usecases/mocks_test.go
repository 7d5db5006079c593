package usecases

import (
	"context"
	"sort"
	"sync"

	"github.com/orris-inc/licenser/internal/domain/license"
	licvo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memReleaseRepo struct {
	mu       sync.Mutex
	releases []*release.Release
	// listPublishedCalls counts ListPublished round trips
	listPublishedCalls int
}

func (r *memReleaseRepo) Create(ctx context.Context, rel *release.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.releases {
		if existing.ProductID() == rel.ProductID() && existing.Version() == rel.Version() {
			return release.ErrDuplicateVersion
		}
	}
	_ = rel.SetID(uint(len(r.releases) + 1))
	r.releases = append(r.releases, rel)
	return nil
}

func (r *memReleaseRepo) Update(ctx context.Context, rel *release.Release) error {
	return nil
}

func (r *memReleaseRepo) GetByID(ctx context.Context, id uint) (*release.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.releases {
		if rel.ID() == id {
			return rel, nil
		}
	}
	return nil, nil
}

func (r *memReleaseRepo) GetByVersion(ctx context.Context, productID uint, version string) (*release.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.releases {
		if rel.ProductID() == productID && rel.Version() == version {
			return rel, nil
		}
	}
	return nil, nil
}

func (r *memReleaseRepo) ListPublished(ctx context.Context, productID uint, types []vo.ReleaseType, limit int) ([]*release.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listPublishedCalls++

	allowed := map[vo.ReleaseType]bool{}
	for _, t := range types {
		allowed[t] = true
	}
	var out []*release.Release
	for _, rel := range r.releases {
		if rel.ProductID() != productID || !rel.IsPublished() {
			continue
		}
		if len(allowed) > 0 && !allowed[rel.Type()] {
			continue
		}
		out = append(out, rel)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt().After(*out[j].StartedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memReleaseRepo) List(ctx context.Context, filter release.ReleaseFilter) ([]*release.Release, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*release.Release
	for _, rel := range r.releases {
		if filter.ProductID != 0 && rel.ProductID() != filter.ProductID {
			continue
		}
		if filter.Status != "" && rel.Status() != filter.Status {
			continue
		}
		out = append(out, rel)
	}
	total := int64(len(out))
	if filter.PageSize > 0 {
		start := (filter.Page - 1) * filter.PageSize
		if start >= len(out) {
			return nil, total, nil
		}
		out = out[start:]
		if len(out) > filter.PageSize {
			out = out[:filter.PageSize]
		}
	}
	return out, total, nil
}

type memUpdateRepo struct {
	updates []*release.Update
}

func (r *memUpdateRepo) Create(ctx context.Context, update *release.Update) error {
	update.SetID(uint(len(r.updates) + 1))
	r.updates = append(r.updates, update)
	return nil
}

func (r *memUpdateRepo) ListByActivation(ctx context.Context, activationID uint) ([]*release.Update, error) {
	var out []*release.Update
	for _, u := range r.updates {
		if u.ActivationID() == activationID {
			out = append(out, u)
		}
	}
	return out, nil
}

// memActivationRepo only records updates; the release use cases never
// create activations.
type memActivationRepo struct {
	updated []*license.Activation
}

func (r *memActivationRepo) Activate(ctx context.Context, key *license.Key, activation *license.Activation) (*license.ActivationResult, error) {
	return nil, nil
}

func (r *memActivationRepo) GetByID(ctx context.Context, id uint) (*license.Activation, error) {
	return nil, nil
}

func (r *memActivationRepo) GetByLocation(ctx context.Context, key, location string) (*license.Activation, error) {
	return nil, nil
}

func (r *memActivationRepo) ListByKey(ctx context.Context, key string, status *licvo.ActivationStatus) ([]*license.Activation, error) {
	return nil, nil
}

func (r *memActivationRepo) CountActiveByKey(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (r *memActivationRepo) Update(ctx context.Context, activation *license.Activation) error {
	r.updated = append(r.updated, activation)
	return nil
}

type memProductRepo struct {
	products map[uint]*product.Product
}

func (r *memProductRepo) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDForUpdate(ctx context.Context, id uint) (*product.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	var out []*product.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Upsert(ctx context.Context, p *product.Product) error {
	r.products[p.ID()] = p
	return nil
}

func (r *memProductRepo) SaveKeyOptions(ctx context.Context, productID uint, opts map[string]any) error {
	return nil
}
