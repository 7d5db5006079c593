package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProductMapper
	logger logger.Interface
}

func NewProductRepository(db *gorm.DB, logger logger.Interface) product.Repository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mappers.NewProductMapper(),
		logger: logger,
	}
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.getByID(db.GetTxFromContext(ctx, r.db), id)
}

func (r *ProductRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*product.Product, error) {
	return r.getByID(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *ProductRepositoryImpl) getByID(tx *gorm.DB, id uint) (*product.Product, error) {
	var model models.ProductModel
	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get product", "error", err, "product_id", id)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ProductRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	if len(ids) == 0 {
		return []*product.Product{}, nil
	}

	var productModels []*models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&productModels).Error; err != nil {
		r.logger.Errorw("failed to get products by IDs", "error", err, "ids", ids)
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}

	products := make([]*product.Product, 0, len(productModels))
	for _, model := range productModels {
		p, err := r.mapper.ToEntity(model)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepositoryImpl) Upsert(ctx context.Context, p *product.Product) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	if err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "slug", "description", "license", "readme", "updated_at"}),
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to upsert product", "error", err, "product_id", p.ID())
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

// SaveKeyOptions rewrites the key_options member of the stored license
// configuration, leaving the other members untouched.
func (r *ProductRepositoryImpl) SaveKeyOptions(ctx context.Context, productID uint, opts map[string]any) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var model models.ProductModel
		if err := tx.Scopes(db.ForUpdate()).First(&model, productID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return product.ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		var cfg product.LicenseConfig
		if len(model.License) > 0 {
			if err := json.Unmarshal(model.License, &cfg); err != nil {
				return fmt.Errorf("failed to unmarshal license config: %w", err)
			}
		}
		cfg.KeyOptions = opts

		raw, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal license config: %w", err)
		}
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", productID).
			Updates(map[string]interface{}{
				"license":    datatypes.JSON(raw),
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			r.logger.Errorw("failed to save key options", "error", err, "product_id", productID)
			return fmt.Errorf("failed to save key options: %w", err)
		}
		return nil
	})
}
