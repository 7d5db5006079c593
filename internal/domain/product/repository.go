package product

import "context"

// Repository persists product mirrors. GetByID returns nil, nil when missing.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	// GetByIDForUpdate reads the product and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	// Upsert inserts or replaces the product with the same ID.
	Upsert(ctx context.Context, product *Product) error
	// SaveKeyOptions replaces the key generator options of a product.
	SaveKeyOptions(ctx context.Context, productID uint, opts map[string]any) error
}
