package endpoints

import (
	"context"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// InfoEndpoint reports the key and the purchase it belongs to.
type InfoEndpoint struct {
	describer       KeyDescriber
	productRepo     product.Repository
	customerRepo    commerce.CustomerRepository
	transactionRepo commerce.TransactionRepository
}

func NewInfoEndpoint(
	describer KeyDescriber,
	productRepo product.Repository,
	customerRepo commerce.CustomerRepository,
	transactionRepo commerce.TransactionRepository,
) *InfoEndpoint {
	return &InfoEndpoint{
		describer:       describer,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
	}
}

func (e *InfoEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthExists
}

func (e *InfoEndpoint) AuthError() *errors.APIError {
	return dispatch.DefaultAuthError()
}

func (e *InfoEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	k, err := e.describer.Describe(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"key":         k.Key,
		"status":      k.Status,
		"max":         k.Max,
		"activations": k.Activations,
		"expires":     k.Expires,
		"product":     map[string]any{"id": k.ProductID},
		"customer":    map[string]any{"id": k.CustomerID},
		"transaction": map[string]any{"id": k.TransactionID},
	}

	p, err := e.productRepo.GetByID(ctx, k.ProductID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		body["product"] = map[string]any{"id": p.ID(), "name": p.Name(), "slug": p.Slug()}
	}

	customer, err := e.customerRepo.GetByID(ctx, k.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		body["customer"] = map[string]any{"id": customer.ID(), "name": customer.DisplayName(), "email": customer.Email()}
	}

	txn, err := e.transactionRepo.GetByID(ctx, k.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn != nil {
		body["transaction"] = map[string]any{"id": txn.ID(), "total": txn.Total(), "created_at": txn.CreatedAt()}
	}
	return body, nil
}
