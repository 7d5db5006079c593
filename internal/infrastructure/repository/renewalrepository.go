package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type RenewalRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewRenewalRepository(db *gorm.DB, logger logger.Interface) license.RenewalRepository {
	return &RenewalRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

func (r *RenewalRepositoryImpl) Create(ctx context.Context, renewal *license.Renewal) error {
	model := r.mapper.RenewalToModel(renewal)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create renewal", "error", err)
		return fmt.Errorf("failed to create renewal: %w", err)
	}
	return renewal.SetID(model.ID)
}

func (r *RenewalRepositoryImpl) ListByKey(ctx context.Context, key string) ([]*license.Renewal, error) {
	var renewalModels []*models.RenewalModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("license_key = ?", key).
		Order("renewed_at DESC").
		Find(&renewalModels).Error; err != nil {
		r.logger.Errorw("failed to list renewals", "error", err)
		return nil, fmt.Errorf("failed to list renewals: %w", err)
	}

	renewals := make([]*license.Renewal, 0, len(renewalModels))
	for _, model := range renewalModels {
		entity, err := r.mapper.RenewalToEntity(model)
		if err != nil {
			return nil, err
		}
		renewals = append(renewals, entity)
	}
	return renewals, nil
}
