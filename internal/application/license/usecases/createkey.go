package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/license/keygen"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type CreateKeyCommand struct {
	// Key is generated with the product's key generator when empty
	Key           string
	ProductID     uint
	CustomerID    uint
	TransactionID uint
	// Max and Expires default to the product's license configuration when nil
	Max     *int
	Expires *time.Time
	Status  string
}

type CreateKeyUseCase struct {
	keyRepo         license.KeyRepository
	productRepo     product.Repository
	customerRepo    commerce.CustomerRepository
	transactionRepo commerce.TransactionRepository
	generators      GeneratorResolver
	txManager       TransactionManager
	logger          logger.Interface
	now             func() time.Time
}

func NewCreateKeyUseCase(
	keyRepo license.KeyRepository,
	productRepo product.Repository,
	customerRepo commerce.CustomerRepository,
	transactionRepo commerce.TransactionRepository,
	generators GeneratorResolver,
	txManager TransactionManager,
	logger logger.Interface,
) *CreateKeyUseCase {
	return &CreateKeyUseCase{
		keyRepo:         keyRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		generators:      generators,
		txManager:       txManager,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

func (uc *CreateKeyUseCase) Execute(ctx context.Context, cmd CreateKeyCommand) (*license.Key, error) {
	p, err := uc.resolveOwners(ctx, cmd)
	if err != nil {
		return nil, err
	}

	status := vo.KeyStatusActive
	if cmd.Status != "" {
		parsed, ok := vo.ParseKeyStatus(cmd.Status)
		if !ok {
			return nil, errors.NewValidationError("invalid status", cmd.Status)
		}
		status = parsed
	}

	cfg := p.License()
	max := cfg.MaxActivations
	if cmd.Max != nil {
		max = *cmd.Max
	}
	expires := cmd.Expires
	if expires == nil {
		expires = cfg.ExpiresFrom(uc.now())
	}

	var key *license.Key
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		keyString := strings.TrimSpace(cmd.Key)
		if keyString == "" {
			generated, err := uc.generate(ctx, cmd)
			if err != nil {
				return err
			}
			keyString = generated
		}

		k, err := license.NewKey(keyString, cmd.ProductID, cmd.CustomerID, cmd.TransactionID, max, expires, status)
		if err != nil {
			return err
		}
		if err := uc.keyRepo.Create(ctx, k); err != nil {
			return err
		}
		key = k
		return nil
	})
	if err != nil {
		uc.logger.Warnw("failed to create license key",
			"error", err,
			"product_id", cmd.ProductID,
			"transaction_id", cmd.TransactionID,
		)
		return nil, toAppError(err, "failed to create license key")
	}

	uc.logger.Infow("license key issued",
		"product_id", key.ProductID(),
		"customer_id", key.CustomerID(),
		"transaction_id", key.TransactionID(),
		"max", key.Max(),
	)
	return key, nil
}

func (uc *CreateKeyUseCase) resolveOwners(ctx context.Context, cmd CreateKeyCommand) (*product.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, toAppError(err, "failed to load product")
	}
	if p == nil {
		return nil, errors.NewValidationError("product not found", fmt.Sprintf("product_id=%d", cmd.ProductID))
	}
	if !p.IsLicensed() {
		return nil, errors.NewValidationError(product.ErrLicensingDisabled.Error(), fmt.Sprintf("product_id=%d", cmd.ProductID))
	}

	customer, err := uc.customerRepo.GetByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, toAppError(err, "failed to load customer")
	}
	if customer == nil {
		return nil, errors.NewValidationError("customer not found", fmt.Sprintf("customer_id=%d", cmd.CustomerID))
	}

	txn, err := uc.transactionRepo.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, toAppError(err, "failed to load transaction")
	}
	if txn == nil {
		return nil, errors.NewValidationError("transaction not found", fmt.Sprintf("transaction_id=%d", cmd.TransactionID))
	}
	if txn.CustomerID() != 0 && txn.CustomerID() != cmd.CustomerID {
		return nil, errors.NewValidationError("transaction belongs to another customer", fmt.Sprintf("transaction_id=%d", cmd.TransactionID))
	}
	return p, nil
}

// generate re-reads the product under a row lock. List generators consume
// their options.
func (uc *CreateKeyUseCase) generate(ctx context.Context, cmd CreateKeyCommand) (string, error) {
	locked, err := uc.productRepo.GetByIDForUpdate(ctx, cmd.ProductID)
	if err != nil {
		return "", err
	}
	if locked == nil {
		return "", errors.NewValidationError("product not found", fmt.Sprintf("product_id=%d", cmd.ProductID))
	}

	cfg := locked.License()
	slug := cfg.KeyType
	if slug == "" {
		slug = keygen.TypeRandom
	}

	gen, err := uc.generators.Resolve(slug)
	if err != nil {
		return "", err
	}

	key, err := gen.Generate(ctx, keygen.Request{
		ProductID:     cmd.ProductID,
		CustomerID:    cmd.CustomerID,
		TransactionID: cmd.TransactionID,
		Options:       keygen.Options(cfg.KeyOptions),
	})
	if err != nil {
		return "", fmt.Errorf("generate %s key: %w", slug, err)
	}
	return key, nil
}
