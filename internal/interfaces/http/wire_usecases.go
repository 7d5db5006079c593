package http

import (
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	releaseUsecases "github.com/orris-inc/licenser/internal/application/release/usecases"
	"github.com/orris-inc/licenser/internal/domain/license/keygen"
	"github.com/orris-inc/licenser/internal/shared/services/markdown"
)

// allUseCases holds all use case instances created during container initialization.
type allUseCases struct {
	// License
	createKey       *licenseUsecases.CreateKeyUseCase
	issueKeys       *licenseUsecases.IssueKeysUseCase
	getKey          *licenseUsecases.GetKeyUseCase
	updateKey       *licenseUsecases.UpdateKeyUseCase
	renewKey        *licenseUsecases.RenewKeyUseCase
	listRenewals    *licenseUsecases.ListRenewalsUseCase
	listActivations *licenseUsecases.ListActivationsUseCase
	activate        *licenseUsecases.ActivateUseCase
	deactivate      *licenseUsecases.DeactivateUseCase
	authenticate    *licenseUsecases.AuthenticateUseCase

	// Release
	createRelease  *releaseUsecases.CreateReleaseUseCase
	listReleases   *releaseUsecases.ListReleasesUseCase
	publishRelease *releaseUsecases.PublishReleaseUseCase
	archiveRelease *releaseUsecases.ArchiveReleaseUseCase
	retention      *releaseUsecases.ApplyRetentionUseCase
	latestRelease  *releaseUsecases.GetLatestReleaseUseCase
	changelog      *releaseUsecases.CompileChangelogUseCase
	recordUpdate   *releaseUsecases.RecordUpdateUseCase

	renderer markdown.Renderer
}

func newUseCases(c *Container) *allUseCases {
	r := c.repos
	log := c.log
	u := &allUseCases{renderer: markdown.NewRenderer()}

	u.createKey = licenseUsecases.NewCreateKeyUseCase(r.keyRepo, r.productRepo, r.customerRepo, r.transactionRepo,
		keygen.NewDefaultRegistry(r.productRepo), r.txManager, log)
	u.issueKeys = licenseUsecases.NewIssueKeysUseCase(u.createKey, r.keyRepo, r.productRepo, r.customerRepo,
		r.transactionRepo, r.txManager, log)
	u.getKey = licenseUsecases.NewGetKeyUseCase(r.keyRepo, r.activationRepo, log)
	u.updateKey = licenseUsecases.NewUpdateKeyUseCase(r.keyRepo, log)
	u.renewKey = licenseUsecases.NewRenewKeyUseCase(r.keyRepo, r.renewalRepo, r.productRepo, r.txManager, log)
	u.listRenewals = licenseUsecases.NewListRenewalsUseCase(r.keyRepo, r.renewalRepo, log)
	u.listActivations = licenseUsecases.NewListActivationsUseCase(r.keyRepo, r.activationRepo, log)
	u.activate = licenseUsecases.NewActivateUseCase(r.activationRepo, r.releaseRepo, log)
	u.activate.SetObserver(c.metrics)
	u.deactivate = licenseUsecases.NewDeactivateUseCase(r.activationRepo, log)
	u.authenticate = licenseUsecases.NewAuthenticateUseCase(r.keyRepo, r.activationRepo, log)

	u.retention = releaseUsecases.NewApplyRetentionUseCase(r.releaseRepo, c.releaseCache, c.cfg.Release.KeepLast, log)
	u.createRelease = releaseUsecases.NewCreateReleaseUseCase(r.releaseRepo, r.productRepo, log)
	u.listReleases = releaseUsecases.NewListReleasesUseCase(r.releaseRepo, log)
	u.publishRelease = releaseUsecases.NewPublishReleaseUseCase(r.releaseRepo, c.releaseCache, u.retention, log)
	u.archiveRelease = releaseUsecases.NewArchiveReleaseUseCase(r.releaseRepo, c.releaseCache, log)
	u.latestRelease = releaseUsecases.NewGetLatestReleaseUseCase(r.releaseRepo, c.releaseCache, log)
	u.changelog = releaseUsecases.NewCompileChangelogUseCase(r.releaseRepo, u.renderer, c.cfg.Release.ChangelogLimit, log)
	u.recordUpdate = releaseUsecases.NewRecordUpdateUseCase(r.activationRepo, r.releaseRepo, r.updateRepo, r.txManager, log)

	return u
}
