package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/domain/release"
	relvo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*license.Key
	// failUpdate makes Update fail for the listed keys
	failUpdate map[string]bool
	// stale is served by unlocked reads, standing in for a row another
	// transaction changed after it was read
	stale       map[string]*license.Key
	lockedReads int
}

func newMemKeyRepo() *memKeyRepo {
	return &memKeyRepo{keys: map[string]*license.Key{}, failUpdate: map[string]bool{}, stale: map[string]*license.Key{}}
}

func (r *memKeyRepo) Create(ctx context.Context, key *license.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key.Key()]; ok {
		return errors.NewConflictError("license key already exists")
	}
	r.keys[key.Key()] = key
	return nil
}

func (r *memKeyRepo) GetByKey(ctx context.Context, key string) (*license.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.stale[key]; ok {
		return k, nil
	}
	return r.keys[key], nil
}

func (r *memKeyRepo) GetByKeyForUpdate(ctx context.Context, key string) (*license.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedReads++
	return r.keys[key], nil
}

func (r *memKeyRepo) Update(ctx context.Context, key *license.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate[key.Key()] {
		return errors.NewInternalError("update failed")
	}
	r.keys[key.Key()] = key
	return nil
}

func (r *memKeyRepo) sorted(match func(*license.Key) bool) []*license.Key {
	var out []*license.Key
	for _, k := range r.keys {
		if match(k) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (r *memKeyRepo) List(ctx context.Context, filter license.KeyFilter) ([]*license.Key, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(k *license.Key) bool {
		return (filter.ProductID == 0 || k.ProductID() == filter.ProductID) &&
			(filter.CustomerID == 0 || k.CustomerID() == filter.CustomerID) &&
			(filter.TransactionID == 0 || k.TransactionID() == filter.TransactionID) &&
			(filter.Status == "" || k.Status() == filter.Status)
	})
	return out, int64(len(out)), nil
}

func (r *memKeyRepo) ListActiveExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]*license.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(k *license.Key) bool {
		return k.IsActive() && k.Expires() != nil && !k.Expires().After(cutoff)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memKeyRepo) ListActiveExpiringBetween(ctx context.Context, from, to time.Time, offset, limit int) ([]*license.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(k *license.Key) bool {
		return k.IsActive() && k.Expires() != nil && k.Expires().After(from) && !k.Expires().After(to)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memActivationRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*license.Activation
}

func newMemActivationRepo() *memActivationRepo {
	return &memActivationRepo{rows: map[uint]*license.Activation{}}
}

func (r *memActivationRepo) countActive(key string) int64 {
	var n int64
	for _, a := range r.rows {
		if a.Key() == key && a.IsActive() {
			n++
		}
	}
	return n
}

func (r *memActivationRepo) Activate(ctx context.Context, key *license.Key, activation *license.Activation) (*license.ActivationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.Key() != key.Key() || existing.Location() != activation.Location() {
			continue
		}
		if !existing.IsActive() && !key.CanActivate(r.countActive(key.Key())) {
			return &license.ActivationResult{Outcome: license.OutcomeMaxReached}, nil
		}
		existing.Reactivate(activation.ActivatedAt())
		if activation.ReleaseID() != nil {
			existing.SetRelease(*activation.ReleaseID())
		}
		return &license.ActivationResult{Outcome: license.OutcomeReactivated, Activation: existing}, nil
	}

	if !key.CanActivate(r.countActive(key.Key())) {
		return &license.ActivationResult{Outcome: license.OutcomeMaxReached}, nil
	}
	r.nextID++
	_ = activation.SetID(r.nextID)
	r.rows[r.nextID] = activation
	return &license.ActivationResult{Outcome: license.OutcomeCreated, Activation: activation}, nil
}

func (r *memActivationRepo) GetByID(ctx context.Context, id uint) (*license.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *memActivationRepo) GetByLocation(ctx context.Context, key, location string) (*license.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.Key() == key && a.Location() == location {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memActivationRepo) ListByKey(ctx context.Context, key string, status *vo.ActivationStatus) ([]*license.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*license.Activation
	for id := uint(1); id <= r.nextID; id++ {
		a, ok := r.rows[id]
		if !ok || a.Key() != key || (status != nil && a.Status() != *status) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memActivationRepo) CountActiveByKey(ctx context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countActive(key), nil
}

func (r *memActivationRepo) Update(ctx context.Context, activation *license.Activation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[activation.ID()] = activation
	return nil
}

type memRenewalRepo struct {
	rows []*license.Renewal
}

func (r *memRenewalRepo) Create(ctx context.Context, renewal *license.Renewal) error {
	_ = renewal.SetID(uint(len(r.rows) + 1))
	r.rows = append(r.rows, renewal)
	return nil
}

func (r *memRenewalRepo) ListByKey(ctx context.Context, key string) ([]*license.Renewal, error) {
	var out []*license.Renewal
	for _, row := range r.rows {
		if row.Key() == key {
			out = append(out, row)
		}
	}
	return out, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uint]*product.Product
	// afterGet runs once after the next unlocked GetByID returns
	afterGet    func()
	lockedReads int
}

func newMemProductRepo(products ...*product.Product) *memProductRepo {
	r := &memProductRepo{products: map[uint]*product.Product{}}
	for _, p := range products {
		r.products[p.ID()] = p
	}
	return r
}

func (r *memProductRepo) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	r.mu.Lock()
	p := r.products[id]
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return p, nil
}

func (r *memProductRepo) GetByIDForUpdate(ctx context.Context, id uint) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedReads++
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*product.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Upsert(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID()] = p
	return nil
}

func (r *memProductRepo) SaveKeyOptions(ctx context.Context, productID uint, opts map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return product.ErrProductNotFound
	}
	cfg := p.License()
	cfg.KeyOptions = opts
	r.products[productID] = product.ReconstructProduct(p.ID(), p.Name(), p.Slug(), p.Description(), cfg, p.Readme(), p.CreatedAt(), p.UpdatedAt())
	return nil
}

type memCustomerRepo struct {
	customers map[uint]*commerce.Customer
}

func newMemCustomerRepo(customers ...*commerce.Customer) *memCustomerRepo {
	r := &memCustomerRepo{customers: map[uint]*commerce.Customer{}}
	for _, c := range customers {
		r.customers[c.ID()] = c
	}
	return r
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id uint) (*commerce.Customer, error) {
	return r.customers[id], nil
}

func (r *memCustomerRepo) Upsert(ctx context.Context, c *commerce.Customer) error {
	r.customers[c.ID()] = c
	return nil
}

type memTransactionRepo struct {
	transactions map[uint]*commerce.Transaction
}

func newMemTransactionRepo(transactions ...*commerce.Transaction) *memTransactionRepo {
	r := &memTransactionRepo{transactions: map[uint]*commerce.Transaction{}}
	for _, t := range transactions {
		r.transactions[t.ID()] = t
	}
	return r
}

func (r *memTransactionRepo) GetByID(ctx context.Context, id uint) (*commerce.Transaction, error) {
	return r.transactions[id], nil
}

func (r *memTransactionRepo) Upsert(ctx context.Context, t *commerce.Transaction) error {
	r.transactions[t.ID()] = t
	return nil
}

type memReleaseRepo struct {
	releases []*release.Release
}

func (r *memReleaseRepo) Create(ctx context.Context, rel *release.Release) error {
	_ = rel.SetID(uint(len(r.releases) + 1))
	r.releases = append(r.releases, rel)
	return nil
}

func (r *memReleaseRepo) Update(ctx context.Context, rel *release.Release) error {
	return nil
}

func (r *memReleaseRepo) GetByID(ctx context.Context, id uint) (*release.Release, error) {
	for _, rel := range r.releases {
		if rel.ID() == id {
			return rel, nil
		}
	}
	return nil, nil
}

func (r *memReleaseRepo) GetByVersion(ctx context.Context, productID uint, version string) (*release.Release, error) {
	for _, rel := range r.releases {
		if rel.ProductID() == productID && rel.Version() == version {
			return rel, nil
		}
	}
	return nil, nil
}

func (r *memReleaseRepo) ListPublished(ctx context.Context, productID uint, types []relvo.ReleaseType, limit int) ([]*release.Release, error) {
	return nil, nil
}

func (r *memReleaseRepo) List(ctx context.Context, filter release.ReleaseFilter) ([]*release.Release, int64, error) {
	return r.releases, int64(len(r.releases)), nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendRenewalReminder(to, name, productName, key string, expires time.Time) error {
	args := m.Called(to, name, productName, key, expires)
	return args.Error(0)
}

type memLock struct {
	mu     sync.Mutex
	claims map[string]bool
}

func newMemLock() *memLock {
	return &memLock{claims: map[string]bool{}}
}

func (l *memLock) id(key string, expires time.Time) string {
	return key + "@" + expires.UTC().Format(time.RFC3339)
}

func (l *memLock) TryAcquire(ctx context.Context, key string, expires time.Time, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.claims[l.id(key, expires)] {
		return false, nil
	}
	l.claims[l.id(key, expires)] = true
	return true, nil
}

func (l *memLock) Release(ctx context.Context, key string, expires time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claims, l.id(key, expires))
	return nil
}
