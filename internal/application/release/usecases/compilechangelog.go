package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DefaultChangelogLimit is the number of published releases the changelog covers.
const DefaultChangelogLimit = 10

// CompileChangelogUseCase renders the notes of a product's newest published
// releases as one HTML document.
type CompileChangelogUseCase struct {
	releaseRepo release.Repository
	renderer    ChangelogRenderer
	limit       int
	logger      logger.Interface
}

func NewCompileChangelogUseCase(releaseRepo release.Repository, renderer ChangelogRenderer, limit int, logger logger.Interface) *CompileChangelogUseCase {
	if limit <= 0 {
		limit = DefaultChangelogLimit
	}
	return &CompileChangelogUseCase{
		releaseRepo: releaseRepo,
		renderer:    renderer,
		limit:       limit,
		logger:      logger,
	}
}

// Markdown returns the combined changelog source, newest release first.
func (uc *CompileChangelogUseCase) Markdown(ctx context.Context, productID uint) (string, error) {
	published, err := uc.releaseRepo.ListPublished(ctx, productID, nil, uc.limit)
	if err != nil {
		uc.logger.Errorw("failed to load releases for changelog", "error", err, "product_id", productID)
		return "", toAppError(err, "failed to compile changelog")
	}

	var b strings.Builder
	for _, rel := range published {
		b.WriteString("## ")
		b.WriteString(rel.Version())
		if started := rel.StartedAt(); started != nil {
			b.WriteString(" (")
			b.WriteString(biztime.FormatInBizTimezone(*started, time.DateOnly))
			b.WriteString(")")
		}
		b.WriteString("\n\n")
		if notes := strings.TrimSpace(rel.Changelog()); notes != "" {
			b.WriteString(notes)
			b.WriteString("\n\n")
		}
	}
	return b.String(), nil
}

// Execute returns the sanitized HTML changelog. A product without published
// releases yields an empty document.
func (uc *CompileChangelogUseCase) Execute(ctx context.Context, productID uint) (string, error) {
	source, err := uc.Markdown(ctx, productID)
	if err != nil {
		return "", err
	}
	if source == "" {
		return "", nil
	}

	html, err := uc.renderer.ToHTMLSanitized(source)
	if err != nil {
		uc.logger.Errorw("failed to render changelog", "error", err, "product_id", productID)
		return "", toAppError(err, "failed to render changelog")
	}
	return html, nil
}
