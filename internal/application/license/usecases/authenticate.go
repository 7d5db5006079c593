package usecases

import (
	"context"
	"strconv"
	"strings"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// AuthenticateUseCase resolves remote API credentials. The caller decides
// which of the resolved records a request requires.
type AuthenticateUseCase struct {
	keyRepo        license.KeyRepository
	activationRepo license.ActivationRepository
	logger         logger.Interface
}

func NewAuthenticateUseCase(
	keyRepo license.KeyRepository,
	activationRepo license.ActivationRepository,
	logger logger.Interface,
) *AuthenticateUseCase {
	return &AuthenticateUseCase{
		keyRepo:        keyRepo,
		activationRepo: activationRepo,
		logger:         logger,
	}
}

// ResolveKey returns license.ErrKeyNotFound for unknown keys.
func (uc *AuthenticateUseCase) ResolveKey(ctx context.Context, key string) (*license.Key, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > license.MaxKeyLength {
		return nil, license.ErrKeyNotFound
	}

	k, err := uc.keyRepo.GetByKey(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to resolve license key", "error", err)
		return nil, toAppError(err, "failed to resolve license key")
	}
	if k == nil {
		return nil, license.ErrKeyNotFound
	}
	return k, nil
}

// ResolveActivation returns the activation identified by rawID when it
// belongs to key, or license.ErrActivationNotFound.
func (uc *AuthenticateUseCase) ResolveActivation(ctx context.Context, key *license.Key, rawID string) (*license.Activation, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id == 0 {
		return nil, license.ErrActivationNotFound
	}

	activation, err := uc.activationRepo.GetByID(ctx, uint(id))
	if err != nil {
		uc.logger.Errorw("failed to resolve activation", "error", err, "activation_id", id)
		return nil, toAppError(err, "failed to resolve activation")
	}
	if activation == nil || !activation.BelongsTo(key.Key()) {
		return nil, license.ErrActivationNotFound
	}
	return activation, nil
}
