package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/licenser/internal/application/release/dto"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type CreateReleaseCommand struct {
	ProductID uint
	Version   string
	Download  string
	Type      string
	Changelog string
}

// CreateReleaseUseCase stores a draft release. The version must be unique
// per product and, when it is a semantic version, greater than the newest
// published one.
type CreateReleaseUseCase struct {
	releaseRepo release.Repository
	productRepo product.Repository
	logger      logger.Interface
}

func NewCreateReleaseUseCase(releaseRepo release.Repository, productRepo product.Repository, logger logger.Interface) *CreateReleaseUseCase {
	return &CreateReleaseUseCase{
		releaseRepo: releaseRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (uc *CreateReleaseUseCase) Execute(ctx context.Context, cmd CreateReleaseCommand) (*dto.ReleaseDTO, error) {
	p, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, toAppError(err, "failed to load product")
	}
	if p == nil {
		return nil, errors.NewValidationError("product not found", fmt.Sprintf("product_id=%d", cmd.ProductID))
	}

	rel, err := release.NewRelease(cmd.ProductID, cmd.Version, cmd.Download, vo.ReleaseType(cmd.Type), cmd.Changelog)
	if err != nil {
		return nil, toAppError(err, "failed to create release")
	}

	existing, err := uc.releaseRepo.GetByVersion(ctx, rel.ProductID(), rel.Version())
	if err != nil {
		return nil, toAppError(err, "failed to check release version")
	}
	if existing != nil {
		return nil, errors.NewConflictError(release.ErrDuplicateVersion.Error(), rel.Version())
	}

	published, err := uc.releaseRepo.ListPublished(ctx, rel.ProductID(), nil, 0)
	if err != nil {
		return nil, toAppError(err, "failed to load published releases")
	}
	if err := release.ValidateUpgradePath(rel.Version(), release.HighestVersion(published)); err != nil {
		return nil, toAppError(err, "failed to create release")
	}

	if err := uc.releaseRepo.Create(ctx, rel); err != nil {
		uc.logger.Warnw("failed to create release", "error", err, "product_id", rel.ProductID(), "version", rel.Version())
		return nil, toAppError(err, "failed to create release")
	}

	uc.logger.Infow("release drafted",
		"release_id", rel.ID(),
		"product_id", rel.ProductID(),
		"version", rel.Version(),
		"type", rel.Type().String(),
	)
	return dto.ToReleaseDTO(rel), nil
}
