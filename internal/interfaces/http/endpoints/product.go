package endpoints

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// ProductEndpoint returns the product details installations display on
// their update screens.
type ProductEndpoint struct {
	productRepo product.Repository
	latest      LatestReleaseGetter
	changelog   ChangelogCompiler
	renderer    MarkdownRenderer
	links       *DownloadLinks
}

func NewProductEndpoint(
	productRepo product.Repository,
	latest LatestReleaseGetter,
	changelog ChangelogCompiler,
	renderer MarkdownRenderer,
	links *DownloadLinks,
) *ProductEndpoint {
	return &ProductEndpoint{
		productRepo: productRepo,
		latest:      latest,
		changelog:   changelog,
		renderer:    renderer,
		links:       links,
	}
}

func (e *ProductEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthValidActivation
}

func (e *ProductEndpoint) AuthError() *errors.APIError {
	return errors.NewAuthAPIError(errors.CodeInvalidActivation, "invalid license key or activation")
}

func (e *ProductEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	productID := req.Key.ProductID()
	p, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NewNotFoundError(product.ErrProductNotFound.Error())
	}

	description, err := e.renderer.ToHTMLSanitized(p.Description())
	if err != nil {
		return nil, err
	}
	changelog, err := e.changelog.Execute(ctx, productID)
	if err != nil {
		return nil, err
	}

	readme := p.Readme()
	info := map[string]any{
		"id":           p.ID(),
		"name":         p.Name(),
		"description":  p.Description(),
		"version":      "",
		"last_updated": "",
		"package_url":  "",
		"homepage":     readme.Homepage,
		"author":       authorLink(readme),
		"requires":     readme.Requires,
		"tested":       readme.Tested,
		"banners": map[string]string{
			"low":  readme.BannerLow,
			"high": readme.BannerHigh,
		},
		"sections": map[string]string{
			"description": description,
			"changelog":   changelog,
		},
	}

	rel, err := e.latest.Execute(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rel != nil {
		packageURL, _, err := e.links.PackageURL(req.Activation.ID(), req.Key.Key(), rel.ID)
		if err != nil {
			return nil, err
		}
		info["version"] = rel.Version
		info["package_url"] = packageURL
		if rel.StartedAt != nil {
			info["last_updated"] = biztime.FormatInBizTimezone(*rel.StartedAt, time.DateTime)
		}
	}

	return map[string]any{
		"list": map[string]any{strconv.FormatUint(uint64(p.ID()), 10): info},
	}, nil
}

func authorLink(readme product.Readme) string {
	if readme.AuthorURL == "" {
		return readme.Author
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(readme.AuthorURL), html.EscapeString(readme.Author))
}
