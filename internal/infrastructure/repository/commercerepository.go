package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type CustomerRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProductMapper
	logger logger.Interface
}

func NewCustomerRepository(db *gorm.DB, logger logger.Interface) commerce.CustomerRepository {
	return &CustomerRepositoryImpl{db: db, mapper: mappers.NewProductMapper(), logger: logger}
}

func (r *CustomerRepositoryImpl) GetByID(ctx context.Context, id uint) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get customer", "error", err, "customer_id", id)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return r.mapper.CustomerToEntity(&model), nil
}

func (r *CustomerRepositoryImpl) Upsert(ctx context.Context, customer *commerce.Customer) error {
	model := r.mapper.CustomerToModel(customer)
	model.UpdatedAt = time.Now().UTC()

	if err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to upsert customer", "error", err, "customer_id", customer.ID())
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	customer.SetID(model.ID)
	return nil
}

type TransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProductMapper
	logger logger.Interface
}

func NewTransactionRepository(db *gorm.DB, logger logger.Interface) commerce.TransactionRepository {
	return &TransactionRepositoryImpl{db: db, mapper: mappers.NewProductMapper(), logger: logger}
}

func (r *TransactionRepositoryImpl) GetByID(ctx context.Context, id uint) (*commerce.Transaction, error) {
	var model models.TransactionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get transaction", "error", err, "transaction_id", id)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return r.mapper.TransactionToEntity(&model), nil
}

func (r *TransactionRepositoryImpl) Upsert(ctx context.Context, transaction *commerce.Transaction) error {
	model := r.mapper.TransactionToModel(transaction)
	model.UpdatedAt = time.Now().UTC()

	if err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_id", "total", "updated_at"}),
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to upsert transaction", "error", err, "transaction_id", transaction.ID())
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	transaction.SetID(model.ID)
	return nil
}
