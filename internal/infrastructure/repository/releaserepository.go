package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type ReleaseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ReleaseMapper
	logger logger.Interface
}

func NewReleaseRepository(db *gorm.DB, logger logger.Interface) release.Repository {
	return &ReleaseRepositoryImpl{
		db:     db,
		mapper: mappers.NewReleaseMapper(),
		logger: logger,
	}
}

func (r *ReleaseRepositoryImpl) Create(ctx context.Context, rel *release.Release) error {
	model := r.mapper.ToModel(rel)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return release.ErrDuplicateVersion
		}
		r.logger.Errorw("failed to create release", "error", err, "product_id", rel.ProductID(), "version", rel.Version())
		return fmt.Errorf("failed to create release: %w", err)
	}
	if err := rel.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("release created", "release_id", model.ID, "product_id", rel.ProductID(), "version", rel.Version())
	return nil
}

func (r *ReleaseRepositoryImpl) Update(ctx context.Context, rel *release.Release) error {
	model := r.mapper.ToModel(rel)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ReleaseModel{}).
		Where("id = ?", rel.ID()).
		Updates(map[string]interface{}{
			"download":   model.Download,
			"status":     model.Status,
			"type":       model.Type,
			"changelog":  model.Changelog,
			"started_at": model.StartedAt,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update release", "error", result.Error, "release_id", rel.ID())
		return fmt.Errorf("failed to update release: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return release.ErrReleaseNotFound
	}
	return nil
}

func (r *ReleaseRepositoryImpl) GetByID(ctx context.Context, id uint) (*release.Release, error) {
	var model models.ReleaseModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get release", "error", err, "release_id", id)
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ReleaseRepositoryImpl) GetByVersion(ctx context.Context, productID uint, version string) (*release.Release, error) {
	var model models.ReleaseModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("product_id = ? AND version = ?", productID, version).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get release by version", "error", err, "product_id", productID, "version", version)
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ReleaseRepositoryImpl) ListPublished(ctx context.Context, productID uint, types []vo.ReleaseType, limit int) ([]*release.Release, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("product_id = ? AND status = ?", productID, vo.ReleaseStatusPublished.String())
	if len(types) > 0 {
		query = query.Where("type IN ?", typeStrings(types))
	}
	query = query.Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var releaseModels []*models.ReleaseModel
	if err := query.Find(&releaseModels).Error; err != nil {
		r.logger.Errorw("failed to list published releases", "error", err, "product_id", productID)
		return nil, fmt.Errorf("failed to list published releases: %w", err)
	}
	return r.mapper.ToEntities(releaseModels)
}

func (r *ReleaseRepositoryImpl) List(ctx context.Context, filter release.ReleaseFilter) ([]*release.Release, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ReleaseModel{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", typeStrings(filter.Types))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count releases", "error", err)
		return nil, 0, fmt.Errorf("failed to count releases: %w", err)
	}

	var releaseModels []*models.ReleaseModel
	if err := query.Order("created_at DESC").Order("id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&releaseModels).Error; err != nil {
		r.logger.Errorw("failed to list releases", "error", err)
		return nil, 0, fmt.Errorf("failed to list releases: %w", err)
	}

	releases, err := r.mapper.ToEntities(releaseModels)
	if err != nil {
		return nil, 0, err
	}
	return releases, total, nil
}

func typeStrings(types []vo.ReleaseType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

type ReleaseUpdateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ReleaseMapper
	logger logger.Interface
}

func NewReleaseUpdateRepository(db *gorm.DB, logger logger.Interface) release.UpdateRepository {
	return &ReleaseUpdateRepositoryImpl{
		db:     db,
		mapper: mappers.NewReleaseMapper(),
		logger: logger,
	}
}

func (r *ReleaseUpdateRepositoryImpl) Create(ctx context.Context, update *release.Update) error {
	model := r.mapper.UpdateToModel(update)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to record update", "error", err, "activation_id", update.ActivationID())
		return fmt.Errorf("failed to record update: %w", err)
	}
	update.SetID(model.ID)
	return nil
}

func (r *ReleaseUpdateRepositoryImpl) ListByActivation(ctx context.Context, activationID uint) ([]*release.Update, error) {
	var updateModels []*models.ReleaseUpdateModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("activation_id = ?", activationID).
		Order("updated_at DESC").Order("id DESC").
		Find(&updateModels).Error; err != nil {
		r.logger.Errorw("failed to list updates", "error", err, "activation_id", activationID)
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}

	updates := make([]*release.Update, 0, len(updateModels))
	for _, model := range updateModels {
		updates = append(updates, r.mapper.UpdateToEntity(model))
	}
	return updates, nil
}
