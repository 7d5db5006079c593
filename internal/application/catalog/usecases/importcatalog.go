package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/licenser/internal/application/catalog"
	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// TransactionManager runs fn inside a database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ImportResult counts the upserted records.
type ImportResult struct {
	Products     int `json:"products"`
	Customers    int `json:"customers"`
	Transactions int `json:"transactions"`
}

// ImportCatalogUseCase upserts a catalog in one transaction. Customers are
// written before transactions so references inside the same document resolve.
type ImportCatalogUseCase struct {
	productRepo     product.Repository
	customerRepo    commerce.CustomerRepository
	transactionRepo commerce.TransactionRepository
	txManager       TransactionManager
	logger          logger.Interface
}

func NewImportCatalogUseCase(
	productRepo product.Repository,
	customerRepo commerce.CustomerRepository,
	transactionRepo commerce.TransactionRepository,
	txManager TransactionManager,
	logger logger.Interface,
) *ImportCatalogUseCase {
	return &ImportCatalogUseCase{
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

func (uc *ImportCatalogUseCase) Execute(ctx context.Context, c *catalog.Catalog) (*ImportResult, error) {
	products, customers, transactions, err := uc.build(c)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, p := range products {
			if err := uc.productRepo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("product %d: %w", p.ID(), err)
			}
		}
		for _, cu := range customers {
			if err := uc.customerRepo.Upsert(ctx, cu); err != nil {
				return fmt.Errorf("customer %d: %w", cu.ID(), err)
			}
		}
		for _, t := range transactions {
			if err := uc.transactionRepo.Upsert(ctx, t); err != nil {
				return fmt.Errorf("transaction %d: %w", t.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("catalog import failed", "error", err)
		return nil, errors.NewInternalError("failed to import catalog", err.Error())
	}

	result := &ImportResult{Products: len(products), Customers: len(customers), Transactions: len(transactions)}
	uc.logger.Infow("catalog imported",
		"products", result.Products,
		"customers", result.Customers,
		"transactions", result.Transactions,
	)
	return result, nil
}

// build validates every record before anything is written.
func (uc *ImportCatalogUseCase) build(c *catalog.Catalog) ([]*product.Product, []*commerce.Customer, []*commerce.Transaction, error) {
	products := make([]*product.Product, 0, len(c.Products))
	for i, item := range c.Products {
		if item.ID == 0 {
			return nil, nil, nil, errors.NewValidationError("product id is required", fmt.Sprintf("products[%d]", i))
		}
		p, err := product.NewProduct(item.ID, item.Name, item.Slug, item.Description, item.License, item.Readme)
		if err != nil {
			return nil, nil, nil, errors.NewValidationError(err.Error(), fmt.Sprintf("products[%d]", i))
		}
		products = append(products, p)
	}

	customers := make([]*commerce.Customer, 0, len(c.Customers))
	for i, item := range c.Customers {
		cu, err := commerce.NewCustomer(item.ID, item.Email, item.Name)
		if err != nil {
			return nil, nil, nil, errors.NewValidationError(err.Error(), fmt.Sprintf("customers[%d]", i))
		}
		customers = append(customers, cu)
	}

	transactions := make([]*commerce.Transaction, 0, len(c.Transactions))
	for i, item := range c.Transactions {
		t, err := commerce.NewTransaction(item.ID, item.CustomerID, item.Total)
		if err != nil {
			return nil, nil, nil, errors.NewValidationError(err.Error(), fmt.Sprintf("transactions[%d]", i))
		}
		transactions = append(transactions, t)
	}

	return products, customers, transactions, nil
}
