package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// IssueKeysCommand describes a completed purchase.
type IssueKeysCommand struct {
	TransactionID uint
	Total         int64
	CustomerID    uint
	CustomerEmail string
	CustomerName  string
	ProductIDs    []uint
}

// IssueKeysResult lists the keys of the purchase, including ones issued by
// an earlier call for the same transaction.
type IssueKeysResult struct {
	Keys    []*license.Key
	Skipped []uint
}

// IssueKeysUseCase mirrors the purchase records and issues one key per
// license-enabled product line item.
type IssueKeysUseCase struct {
	createKey       *CreateKeyUseCase
	keyRepo         license.KeyRepository
	productRepo     product.Repository
	customerRepo    commerce.CustomerRepository
	transactionRepo commerce.TransactionRepository
	txManager       TransactionManager
	logger          logger.Interface
}

func NewIssueKeysUseCase(
	createKey *CreateKeyUseCase,
	keyRepo license.KeyRepository,
	productRepo product.Repository,
	customerRepo commerce.CustomerRepository,
	transactionRepo commerce.TransactionRepository,
	txManager TransactionManager,
	logger logger.Interface,
) *IssueKeysUseCase {
	return &IssueKeysUseCase{
		createKey:       createKey,
		keyRepo:         keyRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

func (uc *IssueKeysUseCase) Execute(ctx context.Context, cmd IssueKeysCommand) (*IssueKeysResult, error) {
	if len(cmd.ProductIDs) == 0 {
		return nil, errors.NewValidationError("at least one product is required")
	}

	customer, err := commerce.NewCustomer(cmd.CustomerID, cmd.CustomerEmail, cmd.CustomerName)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	txn, err := commerce.NewTransaction(cmd.TransactionID, cmd.CustomerID, cmd.Total)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	products, err := uc.productRepo.GetByIDs(ctx, cmd.ProductIDs)
	if err != nil {
		return nil, toAppError(err, "failed to load products")
	}
	byID := make(map[uint]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}

	result := &IssueKeysResult{}
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.customerRepo.Upsert(ctx, customer); err != nil {
			return err
		}
		if err := uc.transactionRepo.Upsert(ctx, txn); err != nil {
			return err
		}

		existing, _, err := uc.keyRepo.List(ctx, license.KeyFilter{TransactionID: cmd.TransactionID})
		if err != nil {
			return err
		}
		issued := make(map[uint]*license.Key, len(existing))
		for _, k := range existing {
			issued[k.ProductID()] = k
		}

		for _, productID := range cmd.ProductIDs {
			p, ok := byID[productID]
			if !ok {
				return errors.NewValidationError("product not found", fmt.Sprintf("product_id=%d", productID))
			}
			if !p.IsLicensed() {
				result.Skipped = append(result.Skipped, productID)
				continue
			}
			if k, ok := issued[productID]; ok {
				result.Keys = append(result.Keys, k)
				continue
			}

			k, err := uc.createKey.Execute(ctx, CreateKeyCommand{
				ProductID:     productID,
				CustomerID:    cmd.CustomerID,
				TransactionID: cmd.TransactionID,
			})
			if err != nil {
				return err
			}
			issued[productID] = k
			result.Keys = append(result.Keys, k)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to issue purchase keys", "error", err, "transaction_id", cmd.TransactionID)
		return nil, toAppError(err, "failed to issue license keys")
	}

	uc.logger.Infow("purchase processed",
		"transaction_id", cmd.TransactionID,
		"keys", len(result.Keys),
		"skipped", len(result.Skipped),
	)
	return result, nil
}
