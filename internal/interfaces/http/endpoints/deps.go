// Package endpoints implements the remote API actions served through the
// dispatcher.
package endpoints

import (
	"context"
	"time"

	licensedto "github.com/orris-inc/licenser/internal/application/license/dto"
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	releasedto "github.com/orris-inc/licenser/internal/application/release/dto"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/infrastructure/auth"
)

type Activator interface {
	Execute(ctx context.Context, cmd licenseUsecases.ActivateCommand) (*license.ActivationResult, error)
}

type Deactivator interface {
	Execute(ctx context.Context, key string, activationID uint) (*license.Activation, error)
}

type KeyDescriber interface {
	Describe(ctx context.Context, k *license.Key) (*licensedto.KeyDTO, error)
}

// CredentialResolver resolves keys and activations named by a request.
type CredentialResolver interface {
	ResolveKey(ctx context.Context, key string) (*license.Key, error)
	ResolveActivation(ctx context.Context, key *license.Key, rawID string) (*license.Activation, error)
}

type LatestReleaseGetter interface {
	Execute(ctx context.Context, productID uint) (*releasedto.ReleaseDTO, error)
}

type ChangelogCompiler interface {
	Execute(ctx context.Context, productID uint) (string, error)
}

type UpdateRecorder interface {
	Execute(ctx context.Context, activation *license.Activation, rel *release.Release) (*release.Update, error)
}

type MarkdownRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

// DownloadTokens signs and verifies package download grants.
type DownloadTokens interface {
	Sign(activationID uint, key string, releaseID uint) (string, time.Time, error)
	Verify(token string) (*auth.DownloadGrant, error)
}
