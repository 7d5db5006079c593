package endpoints

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DownloadEndpoint streams a release package for a signed download token.
// It needs no Basic credentials; the token carries the grant.
type DownloadEndpoint struct {
	tokens         DownloadTokens
	resolver       CredentialResolver
	activationRepo license.ActivationRepository
	releaseRepo    release.Repository
	recorder       UpdateRecorder
	storageRoot    string
	logger         logger.Interface
}

func NewDownloadEndpoint(
	tokens DownloadTokens,
	resolver CredentialResolver,
	activationRepo license.ActivationRepository,
	releaseRepo release.Repository,
	recorder UpdateRecorder,
	storageRoot string,
	logger logger.Interface,
) *DownloadEndpoint {
	return &DownloadEndpoint{
		tokens:         tokens,
		resolver:       resolver,
		activationRepo: activationRepo,
		releaseRepo:    releaseRepo,
		recorder:       recorder,
		storageRoot:    storageRoot,
		logger:         logger,
	}
}

func (e *DownloadEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	token := req.Get("token")
	if token == "" {
		return nil, errInvalidDownload()
	}
	grant, err := e.tokens.Verify(token)
	if err != nil {
		e.logger.Debugw("download token rejected", "error", err)
		return nil, errInvalidDownload()
	}

	key, err := e.resolver.ResolveKey(ctx, grant.Key)
	if err != nil || !key.IsActive() {
		return nil, errInvalidDownload()
	}

	activation, err := e.activationRepo.GetByID(ctx, grant.ActivationID)
	if err != nil {
		return nil, err
	}
	if activation == nil || !activation.IsActive() || !activation.BelongsTo(key.Key()) {
		return nil, errInvalidDownload()
	}

	rel, err := e.releaseRepo.GetByID(ctx, grant.ReleaseID)
	if err != nil {
		return nil, err
	}
	if rel == nil || !rel.IsPublished() || rel.ProductID() != key.ProductID() {
		return nil, errInvalidDownload()
	}

	path, ok := e.resolvePath(rel.Download())
	if !ok {
		e.logger.Warnw("release package missing", "release_id", rel.ID(), "download", rel.Download())
		return nil, errInvalidDownload()
	}

	if _, err := e.recorder.Execute(ctx, activation, rel); err != nil {
		return nil, err
	}

	return dispatch.FileResponse{Path: path}, nil
}

// resolvePath maps a release download to a regular file under the storage root.
func (e *DownloadEndpoint) resolvePath(download string) (string, bool) {
	download = strings.TrimSpace(download)
	if download == "" {
		return "", false
	}
	path := filepath.Join(e.storageRoot, filepath.Clean("/"+download))
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}
