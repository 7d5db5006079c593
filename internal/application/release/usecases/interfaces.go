package usecases

import (
	"context"
)

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ChangelogRenderer turns release notes written in markdown into safe HTML.
type ChangelogRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

// RetentionApplier archives the published releases of a product beyond the
// retention limit.
type RetentionApplier interface {
	ApplyForProduct(ctx context.Context, productID uint) (int, error)
}
