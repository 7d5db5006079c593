package usecases

import (
	"context"

	"github.com/orris-inc/licenser/internal/application/license/dto"
	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type GetKeyUseCase struct {
	keyRepo        license.KeyRepository
	activationRepo license.ActivationRepository
	logger         logger.Interface
}

func NewGetKeyUseCase(keyRepo license.KeyRepository, activationRepo license.ActivationRepository, logger logger.Interface) *GetKeyUseCase {
	return &GetKeyUseCase{
		keyRepo:        keyRepo,
		activationRepo: activationRepo,
		logger:         logger,
	}
}

func (uc *GetKeyUseCase) Execute(ctx context.Context, key string) (*dto.KeyDTO, error) {
	k, err := uc.keyRepo.GetByKey(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to get license key", "error", err)
		return nil, toAppError(err, "failed to get license key")
	}
	if k == nil {
		return nil, errors.NewNotFoundError(license.ErrKeyNotFound.Error())
	}
	return uc.Describe(ctx, k)
}

// Describe converts an already loaded key, counting its active activations.
func (uc *GetKeyUseCase) Describe(ctx context.Context, k *license.Key) (*dto.KeyDTO, error) {
	count, err := uc.activationRepo.CountActiveByKey(ctx, k.Key())
	if err != nil {
		uc.logger.Errorw("failed to count activations", "error", err, "product_id", k.ProductID())
		return nil, toAppError(err, "failed to count activations")
	}
	return dto.ToKeyDTO(k, count), nil
}

type ListActivationsUseCase struct {
	keyRepo        license.KeyRepository
	activationRepo license.ActivationRepository
	logger         logger.Interface
}

func NewListActivationsUseCase(keyRepo license.KeyRepository, activationRepo license.ActivationRepository, logger logger.Interface) *ListActivationsUseCase {
	return &ListActivationsUseCase{
		keyRepo:        keyRepo,
		activationRepo: activationRepo,
		logger:         logger,
	}
}

// Execute lists a key's activations. An empty status lists all of them.
func (uc *ListActivationsUseCase) Execute(ctx context.Context, key, status string) ([]*dto.ActivationDTO, error) {
	var filter *vo.ActivationStatus
	if status != "" {
		s := vo.ActivationStatus(status)
		if !s.IsValid() {
			return nil, errors.NewValidationError("invalid activation status", status)
		}
		filter = &s
	}

	k, err := uc.keyRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, toAppError(err, "failed to get license key")
	}
	if k == nil {
		return nil, errors.NewNotFoundError(license.ErrKeyNotFound.Error())
	}

	activations, err := uc.activationRepo.ListByKey(ctx, k.Key(), filter)
	if err != nil {
		uc.logger.Errorw("failed to list activations", "error", err)
		return nil, toAppError(err, "failed to list activations")
	}
	return dto.ToActivationDTOList(activations), nil
}

type ListRenewalsUseCase struct {
	keyRepo     license.KeyRepository
	renewalRepo license.RenewalRepository
	logger      logger.Interface
}

func NewListRenewalsUseCase(keyRepo license.KeyRepository, renewalRepo license.RenewalRepository, logger logger.Interface) *ListRenewalsUseCase {
	return &ListRenewalsUseCase{
		keyRepo:     keyRepo,
		renewalRepo: renewalRepo,
		logger:      logger,
	}
}

func (uc *ListRenewalsUseCase) Execute(ctx context.Context, key string) ([]*dto.RenewalDTO, error) {
	k, err := uc.keyRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, toAppError(err, "failed to get license key")
	}
	if k == nil {
		return nil, errors.NewNotFoundError(license.ErrKeyNotFound.Error())
	}

	renewals, err := uc.renewalRepo.ListByKey(ctx, k.Key())
	if err != nil {
		uc.logger.Errorw("failed to list renewals", "error", err)
		return nil, toAppError(err, "failed to list renewals")
	}
	return dto.ToRenewalDTOList(renewals), nil
}
