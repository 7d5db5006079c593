package usecases

import (
	"context"

	"github.com/orris-inc/licenser/internal/application/release/dto"
	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type ListReleasesQuery struct {
	ProductID uint
	Status    string
	Type      string
	Page      int
	PageSize  int
}

type ListReleasesResult struct {
	Releases []*dto.ReleaseDTO `json:"releases"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type ListReleasesUseCase struct {
	releaseRepo release.Repository
	logger      logger.Interface
}

func NewListReleasesUseCase(releaseRepo release.Repository, logger logger.Interface) *ListReleasesUseCase {
	return &ListReleasesUseCase{releaseRepo: releaseRepo, logger: logger}
}

func (uc *ListReleasesUseCase) Execute(ctx context.Context, query ListReleasesQuery) (*ListReleasesResult, error) {
	filter := release.ReleaseFilter{
		ProductID: query.ProductID,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}

	if query.Status != "" {
		status := vo.ReleaseStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.NewValidationError("invalid release status", query.Status)
		}
		filter.Status = status
	}
	if query.Type != "" {
		kind := vo.ReleaseType(query.Type)
		if !kind.IsValid() {
			return nil, errors.NewValidationError("invalid release type", query.Type)
		}
		filter.Types = []vo.ReleaseType{kind}
	}

	releases, total, err := uc.releaseRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list releases", "error", err, "product_id", query.ProductID)
		return nil, toAppError(err, "failed to list releases")
	}

	return &ListReleasesResult{
		Releases: dto.ToReleaseDTOList(releases),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
