package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
)

// ProductMapper converts between product and commerce mirrors and persistence models.
type ProductMapper interface {
	ToEntity(model *models.ProductModel) (*product.Product, error)
	ToModel(entity *product.Product) (*models.ProductModel, error)
	CustomerToEntity(model *models.CustomerModel) *commerce.Customer
	CustomerToModel(entity *commerce.Customer) *models.CustomerModel
	TransactionToEntity(model *models.TransactionModel) *commerce.Transaction
	TransactionToModel(entity *commerce.Transaction) *models.TransactionModel
}

type productMapper struct{}

func NewProductMapper() ProductMapper {
	return &productMapper{}
}

func (m *productMapper) ToEntity(model *models.ProductModel) (*product.Product, error) {
	if model == nil {
		return nil, nil
	}

	var cfg product.LicenseConfig
	if len(model.License) > 0 {
		if err := json.Unmarshal(model.License, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal license config: %w", err)
		}
	}

	var readme product.Readme
	if len(model.Readme) > 0 {
		if err := json.Unmarshal(model.Readme, &readme); err != nil {
			return nil, fmt.Errorf("failed to unmarshal readme: %w", err)
		}
	}

	return product.ReconstructProduct(
		model.ID,
		model.Name,
		model.Slug,
		model.Description,
		cfg,
		readme,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *productMapper) ToModel(entity *product.Product) (*models.ProductModel, error) {
	if entity == nil {
		return nil, nil
	}

	cfg, err := json.Marshal(entity.License())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal license config: %w", err)
	}
	readme, err := json.Marshal(entity.Readme())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal readme: %w", err)
	}

	return &models.ProductModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Slug:        entity.Slug(),
		Description: entity.Description(),
		License:     datatypes.JSON(cfg),
		Readme:      datatypes.JSON(readme),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *productMapper) CustomerToEntity(model *models.CustomerModel) *commerce.Customer {
	if model == nil {
		return nil
	}
	return commerce.ReconstructCustomer(model.ID, model.Email, model.Name, model.CreatedAt)
}

func (m *productMapper) CustomerToModel(entity *commerce.Customer) *models.CustomerModel {
	if entity == nil {
		return nil
	}
	return &models.CustomerModel{
		ID:        entity.ID(),
		Email:     entity.Email(),
		Name:      entity.Name(),
		CreatedAt: entity.CreatedAt(),
	}
}

func (m *productMapper) TransactionToEntity(model *models.TransactionModel) *commerce.Transaction {
	if model == nil {
		return nil
	}
	return commerce.ReconstructTransaction(model.ID, model.CustomerID, model.Total, model.CreatedAt)
}

func (m *productMapper) TransactionToModel(entity *commerce.Transaction) *models.TransactionModel {
	if entity == nil {
		return nil
	}
	return &models.TransactionModel{
		ID:         entity.ID(),
		CustomerID: entity.CustomerID(),
		Total:      entity.Total(),
		CreatedAt:  entity.CreatedAt(),
	}
}
