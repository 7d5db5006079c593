package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type LicenseKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewLicenseKeyRepository(db *gorm.DB, logger logger.Interface) license.KeyRepository {
	return &LicenseKeyRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

func (r *LicenseKeyRepositoryImpl) Create(ctx context.Context, key *license.Key) error {
	model := r.mapper.KeyToModel(key)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("license key already exists")
		}
		r.logger.Errorw("failed to create license key", "error", err, "product_id", key.ProductID())
		return fmt.Errorf("failed to create license key: %w", err)
	}

	r.logger.Infow("license key created",
		"product_id", key.ProductID(),
		"customer_id", key.CustomerID(),
		"transaction_id", key.TransactionID())
	return nil
}

func (r *LicenseKeyRepositoryImpl) GetByKey(ctx context.Context, key string) (*license.Key, error) {
	return r.getByKey(db.GetTxFromContext(ctx, r.db), key)
}

func (r *LicenseKeyRepositoryImpl) GetByKeyForUpdate(ctx context.Context, key string) (*license.Key, error) {
	return r.getByKey(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), key)
}

func (r *LicenseKeyRepositoryImpl) getByKey(tx *gorm.DB, key string) (*license.Key, error) {
	var model models.LicenseKeyModel
	if err := tx.Where("license_key = ?", key).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get license key", "error", err)
		return nil, fmt.Errorf("failed to get license key: %w", err)
	}
	return r.mapper.KeyToEntity(&model)
}

func (r *LicenseKeyRepositoryImpl) Update(ctx context.Context, key *license.Key) error {
	model := r.mapper.KeyToModel(key)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.LicenseKeyModel{}).
		Where("license_key = ?", key.Key()).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"max_activations": model.MaxActivations,
			"expires":         model.Expires,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update license key", "error", result.Error)
		return fmt.Errorf("failed to update license key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("license key not found")
	}
	return nil
}

func (r *LicenseKeyRepositoryImpl) List(ctx context.Context, filter license.KeyFilter) ([]*license.Key, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.LicenseKeyModel{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.TransactionID != 0 {
		query = query.Where("transaction_id = ?", filter.TransactionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count license keys", "error", err)
		return nil, 0, fmt.Errorf("failed to count license keys: %w", err)
	}

	var keyModels []*models.LicenseKeyModel
	if err := query.Order("created_at DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&keyModels).Error; err != nil {
		r.logger.Errorw("failed to list license keys", "error", err)
		return nil, 0, fmt.Errorf("failed to list license keys: %w", err)
	}

	keys, err := r.mapper.KeysToEntities(keyModels)
	if err != nil {
		return nil, 0, err
	}
	return keys, total, nil
}

func (r *LicenseKeyRepositoryImpl) ListActiveExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]*license.Key, error) {
	var keyModels []*models.LicenseKeyModel
	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires IS NOT NULL AND expires <= ?", vo.KeyStatusActive.String(), cutoff.UTC()).
		Order("expires ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&keyModels).Error; err != nil {
		r.logger.Errorw("failed to list expired license keys", "error", err)
		return nil, fmt.Errorf("failed to list expired license keys: %w", err)
	}
	return r.mapper.KeysToEntities(keyModels)
}

func (r *LicenseKeyRepositoryImpl) ListActiveExpiringBetween(ctx context.Context, from, to time.Time, offset, limit int) ([]*license.Key, error) {
	var keyModels []*models.LicenseKeyModel
	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires > ? AND expires <= ?", vo.KeyStatusActive.String(), from.UTC(), to.UTC()).
		Order("expires ASC").
		Order("license_key ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&keyModels).Error; err != nil {
		r.logger.Errorw("failed to list expiring license keys", "error", err)
		return nil, fmt.Errorf("failed to list expiring license keys: %w", err)
	}
	return r.mapper.KeysToEntities(keyModels)
}
