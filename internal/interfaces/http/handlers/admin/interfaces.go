package admin

import (
	"context"

	licensedto "github.com/orris-inc/licenser/internal/application/license/dto"
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	releasedto "github.com/orris-inc/licenser/internal/application/release/dto"
	releaseUsecases "github.com/orris-inc/licenser/internal/application/release/usecases"
	"github.com/orris-inc/licenser/internal/domain/license"
)

// Use case interfaces for the admin handlers

type createKeyUseCase interface {
	Execute(ctx context.Context, cmd licenseUsecases.CreateKeyCommand) (*license.Key, error)
}

type getKeyUseCase interface {
	Execute(ctx context.Context, key string) (*licensedto.KeyDTO, error)
	Describe(ctx context.Context, k *license.Key) (*licensedto.KeyDTO, error)
}

type updateKeyUseCase interface {
	Execute(ctx context.Context, cmd licenseUsecases.UpdateKeyCommand) (*license.Key, error)
}

type renewKeyUseCase interface {
	Execute(ctx context.Context, cmd licenseUsecases.RenewKeyCommand) (*licenseUsecases.RenewKeyResult, error)
}

type listRenewalsUseCase interface {
	Execute(ctx context.Context, key string) ([]*licensedto.RenewalDTO, error)
}

type listActivationsUseCase interface {
	Execute(ctx context.Context, key, status string) ([]*licensedto.ActivationDTO, error)
}

type deactivateActivationUseCase interface {
	ExecuteByID(ctx context.Context, activationID uint) (*license.Activation, error)
}

type issueKeysUseCase interface {
	Execute(ctx context.Context, cmd licenseUsecases.IssueKeysCommand) (*licenseUsecases.IssueKeysResult, error)
}

type createReleaseUseCase interface {
	Execute(ctx context.Context, cmd releaseUsecases.CreateReleaseCommand) (*releasedto.ReleaseDTO, error)
}

type listReleasesUseCase interface {
	Execute(ctx context.Context, query releaseUsecases.ListReleasesQuery) (*releaseUsecases.ListReleasesResult, error)
}

type releaseTransitionUseCase interface {
	Execute(ctx context.Context, releaseID uint) (*releasedto.ReleaseDTO, error)
}
