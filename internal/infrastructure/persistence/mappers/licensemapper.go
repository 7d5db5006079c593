package mappers

import (
	"fmt"

	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/mapper"
)

// LicenseMapper converts between license aggregates and persistence models.
type LicenseMapper interface {
	KeyToEntity(model *models.LicenseKeyModel) (*license.Key, error)
	KeyToModel(entity *license.Key) *models.LicenseKeyModel
	KeysToEntities(models []*models.LicenseKeyModel) ([]*license.Key, error)

	ActivationToEntity(model *models.ActivationModel) (*license.Activation, error)
	ActivationToModel(entity *license.Activation) *models.ActivationModel
	ActivationsToEntities(models []*models.ActivationModel) ([]*license.Activation, error)

	RenewalToEntity(model *models.RenewalModel) (*license.Renewal, error)
	RenewalToModel(entity *license.Renewal) *models.RenewalModel
}

type licenseMapper struct{}

func NewLicenseMapper() LicenseMapper {
	return &licenseMapper{}
}

func (m *licenseMapper) KeyToEntity(model *models.LicenseKeyModel) (*license.Key, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := license.ReconstructKey(
		model.LicenseKey,
		model.ProductID,
		model.CustomerID,
		model.TransactionID,
		vo.KeyStatus(model.Status),
		model.MaxActivations,
		utc(model.Expires),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license key: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) KeyToModel(entity *license.Key) *models.LicenseKeyModel {
	if entity == nil {
		return nil
	}
	return &models.LicenseKeyModel{
		LicenseKey:     entity.Key(),
		ProductID:      entity.ProductID(),
		CustomerID:     entity.CustomerID(),
		TransactionID:  entity.TransactionID(),
		Status:         entity.Status().String(),
		MaxActivations: entity.Max(),
		Expires:        entity.Expires(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}

func (m *licenseMapper) KeysToEntities(keyModels []*models.LicenseKeyModel) ([]*license.Key, error) {
	return mapper.MapSliceWithError(keyModels, m.KeyToEntity)
}

func (m *licenseMapper) ActivationToEntity(model *models.ActivationModel) (*license.Activation, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := license.ReconstructActivation(
		model.ID,
		model.LicenseKey,
		model.Location,
		vo.ActivationStatus(model.Status),
		model.ActivatedAt.UTC(),
		utc(model.DeactivatedAt),
		model.ReleaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct activation: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) ActivationToModel(entity *license.Activation) *models.ActivationModel {
	if entity == nil {
		return nil
	}
	return &models.ActivationModel{
		ID:            entity.ID(),
		LicenseKey:    entity.Key(),
		Location:      entity.Location(),
		Status:        entity.Status().String(),
		ActivatedAt:   entity.ActivatedAt(),
		DeactivatedAt: entity.DeactivatedAt(),
		ReleaseID:     entity.ReleaseID(),
	}
}

func (m *licenseMapper) ActivationsToEntities(activationModels []*models.ActivationModel) ([]*license.Activation, error) {
	return mapper.MapSliceWithError(activationModels, m.ActivationToEntity)
}

func (m *licenseMapper) RenewalToEntity(model *models.RenewalModel) (*license.Renewal, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := license.ReconstructRenewal(
		model.ID,
		model.LicenseKey,
		model.RenewedAt.UTC(),
		utc(model.KeyExpiredAt),
		model.TransactionID,
		model.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct renewal: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) RenewalToModel(entity *license.Renewal) *models.RenewalModel {
	if entity == nil {
		return nil
	}
	return &models.RenewalModel{
		ID:            entity.ID(),
		LicenseKey:    entity.Key(),
		RenewedAt:     entity.RenewedAt(),
		KeyExpiredAt:  entity.KeyExpiredAt(),
		TransactionID: entity.TransactionID(),
		Revenue:       entity.Revenue(),
	}
}
