package repository

import (
	"context"
	stderrors "errors"
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

const activationSavePoint = "activation_insert"

type ActivationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewActivationRepository(db *gorm.DB, logger logger.Interface) license.ActivationRepository {
	return &ActivationRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

// Activate inserts activation while holding a row lock on the key, so the
// active count check and the (key, location) uniqueness check see every
// concurrent activation of the same key.
func (r *ActivationRepositoryImpl) Activate(ctx context.Context, key *license.Key, activation *license.Activation) (*license.ActivationResult, error) {
	var result *license.ActivationResult

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var keyModel models.LicenseKeyModel
		if err := tx.Scopes(db.ForUpdate()).
			Where("license_key = ?", key.Key()).
			First(&keyModel).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return license.ErrKeyNotFound
			}
			return fmt.Errorf("failed to lock license key: %w", err)
		}

		if err := tx.SavePoint(activationSavePoint).Error; err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}

		model := r.mapper.ActivationToModel(activation)
		if err := tx.Create(model).Error; err != nil {
			if !errors.IsDuplicateError(err) {
				return fmt.Errorf("failed to create activation: %w", err)
			}
			if err := tx.RollbackTo(activationSavePoint).Error; err != nil {
				return fmt.Errorf("failed to roll back to savepoint: %w", err)
			}
			res, err := r.reactivate(tx, keyModel.MaxActivations, activation)
			if err != nil {
				return err
			}
			result = res
			return nil
		}

		count, err := countActive(tx, key.Key())
		if err != nil {
			return err
		}
		if keyModel.MaxActivations != 0 && count > int64(keyModel.MaxActivations) {
			if err := tx.RollbackTo(activationSavePoint).Error; err != nil {
				return fmt.Errorf("failed to roll back to savepoint: %w", err)
			}
			result = &license.ActivationResult{Outcome: license.OutcomeMaxReached}
			return nil
		}

		if err := activation.SetID(model.ID); err != nil {
			return err
		}
		result = &license.ActivationResult{Outcome: license.OutcomeCreated, Activation: activation}
		return nil
	})
	if err != nil {
		if !stderrors.Is(err, license.ErrKeyNotFound) {
			r.logger.Errorw("failed to activate license key", "error", err, "location", activation.Location())
		}
		return nil, err
	}

	r.logger.Infow("license activation processed",
		"outcome", result.Outcome.String(),
		"location", activation.Location())
	return result, nil
}

// reactivate resolves a (key, location) collision against the existing row.
func (r *ActivationRepositoryImpl) reactivate(tx *gorm.DB, max int, activation *license.Activation) (*license.ActivationResult, error) {
	var existing models.ActivationModel
	if err := tx.Where("license_key = ? AND location = ?", activation.Key(), activation.Location()).
		First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing activation: %w", err)
	}

	entity, err := r.mapper.ActivationToEntity(&existing)
	if err != nil {
		return nil, err
	}

	if !entity.IsActive() && max != 0 {
		count, err := countActive(tx, activation.Key())
		if err != nil {
			return nil, err
		}
		if count >= int64(max) {
			return &license.ActivationResult{Outcome: license.OutcomeMaxReached}, nil
		}
	}

	entity.Reactivate(activation.ActivatedAt())
	if releaseID := activation.ReleaseID(); releaseID != nil {
		entity.SetRelease(*releaseID)
	}
	if err := saveActivation(tx, r.mapper.ActivationToModel(entity)); err != nil {
		return nil, err
	}
	return &license.ActivationResult{Outcome: license.OutcomeReactivated, Activation: entity}, nil
}

func (r *ActivationRepositoryImpl) GetByID(ctx context.Context, id uint) (*license.Activation, error) {
	var model models.ActivationModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get activation", "error", err, "activation_id", id)
		return nil, fmt.Errorf("failed to get activation: %w", err)
	}
	return r.mapper.ActivationToEntity(&model)
}

func (r *ActivationRepositoryImpl) GetByLocation(ctx context.Context, key, location string) (*license.Activation, error) {
	var model models.ActivationModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("license_key = ? AND location = ?", key, location).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get activation by location", "error", err, "location", location)
		return nil, fmt.Errorf("failed to get activation: %w", err)
	}
	return r.mapper.ActivationToEntity(&model)
}

func (r *ActivationRepositoryImpl) ListByKey(ctx context.Context, key string, status *vo.ActivationStatus) ([]*license.Activation, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("license_key = ?", key)
	if status != nil {
		query = query.Where("status = ?", status.String())
	}

	var activationModels []*models.ActivationModel
	if err := query.Order("activated_at DESC").Order("id DESC").Find(&activationModels).Error; err != nil {
		r.logger.Errorw("failed to list activations", "error", err)
		return nil, fmt.Errorf("failed to list activations: %w", err)
	}
	return r.mapper.ActivationsToEntities(activationModels)
}

func (r *ActivationRepositoryImpl) CountActiveByKey(ctx context.Context, key string) (int64, error) {
	count, err := countActive(db.GetTxFromContext(ctx, r.db), key)
	if err != nil {
		r.logger.Errorw("failed to count active activations", "error", err)
	}
	return count, err
}

func (r *ActivationRepositoryImpl) Update(ctx context.Context, activation *license.Activation) error {
	if err := saveActivation(db.GetTxFromContext(ctx, r.db), r.mapper.ActivationToModel(activation)); err != nil {
		r.logger.Errorw("failed to update activation", "error", err, "activation_id", activation.ID())
		return err
	}
	return nil
}

func countActive(tx *gorm.DB, key string) (int64, error) {
	var count int64
	if err := tx.Model(&models.ActivationModel{}).
		Where("license_key = ? AND status = ?", key, vo.ActivationStatusActive.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active activations: %w", err)
	}
	return count, nil
}

func saveActivation(tx *gorm.DB, model *models.ActivationModel) error {
	result := tx.Model(&models.ActivationModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"activated_at":   model.ActivatedAt,
			"deactivated_at": model.DeactivatedAt,
			"release_id":     model.ReleaseID,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update activation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("activation not found")
	}
	return nil
}
