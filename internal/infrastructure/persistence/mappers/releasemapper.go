package mappers

import (
	"fmt"

	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/persistence/models"
	"github.com/orris-inc/licenser/internal/shared/mapper"
)

// ReleaseMapper converts between releases and persistence models.
type ReleaseMapper interface {
	ToEntity(model *models.ReleaseModel) (*release.Release, error)
	ToModel(entity *release.Release) *models.ReleaseModel
	ToEntities(models []*models.ReleaseModel) ([]*release.Release, error)
	UpdateToEntity(model *models.ReleaseUpdateModel) *release.Update
	UpdateToModel(entity *release.Update) *models.ReleaseUpdateModel
}

type releaseMapper struct{}

func NewReleaseMapper() ReleaseMapper {
	return &releaseMapper{}
}

func (m *releaseMapper) ToEntity(model *models.ReleaseModel) (*release.Release, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := release.ReconstructRelease(
		model.ID,
		model.ProductID,
		model.Version,
		model.Download,
		vo.ReleaseStatus(model.Status),
		vo.ReleaseType(model.Type),
		model.Changelog,
		utc(model.StartedAt),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct release: %w", err)
	}
	return entity, nil
}

func (m *releaseMapper) ToModel(entity *release.Release) *models.ReleaseModel {
	if entity == nil {
		return nil
	}
	return &models.ReleaseModel{
		ID:        entity.ID(),
		ProductID: entity.ProductID(),
		Version:   entity.Version(),
		Download:  entity.Download(),
		Status:    entity.Status().String(),
		Type:      entity.Type().String(),
		Changelog: entity.Changelog(),
		StartedAt: entity.StartedAt(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *releaseMapper) ToEntities(releaseModels []*models.ReleaseModel) ([]*release.Release, error) {
	return mapper.MapSliceWithError(releaseModels, m.ToEntity)
}

func (m *releaseMapper) UpdateToEntity(model *models.ReleaseUpdateModel) *release.Update {
	if model == nil {
		return nil
	}
	return release.ReconstructUpdate(model.ID, model.ActivationID, model.ReleaseID, model.PreviousVersion, model.UpdatedAt.UTC())
}

func (m *releaseMapper) UpdateToModel(entity *release.Update) *models.ReleaseUpdateModel {
	if entity == nil {
		return nil
	}
	return &models.ReleaseUpdateModel{
		ID:              entity.ID(),
		ActivationID:    entity.ActivationID(),
		ReleaseID:       entity.ReleaseID(),
		PreviousVersion: entity.PreviousVersion(),
		UpdatedAt:       entity.UpdatedAt(),
	}
}
