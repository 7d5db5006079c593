package keygen

import (
	"context"
	"fmt"
	"strings"
)

// List hands out keys from a newline-delimited list stored in the product's
// options, persisting the list without the consumed entry. An exhausted list
// falls back to the Random generator.
type List struct {
	store    OptionsStore
	fallback Generator
}

func NewList(store OptionsStore, fallback Generator) *List {
	return &List{store: store, fallback: fallback}
}

func (g *List) Generate(ctx context.Context, req Request) (string, error) {
	entries := splitList(req.Options.String("keys"))
	if len(entries) == 0 {
		return g.fallback.Generate(ctx, req)
	}

	next := entries[0]
	remaining := req.Options.Clone()
	remaining["keys"] = strings.Join(entries[1:], "\n")

	if err := g.store.SaveKeyOptions(ctx, req.ProductID, remaining); err != nil {
		return "", fmt.Errorf("failed to persist remaining keys: %w", err)
	}
	return next, nil
}

func splitList(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
