package keygen

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps key-type slugs to generators. It is built once at startup
// and passed to the components that issue keys.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// NewDefaultRegistry registers the random, pattern and list generators.
func NewDefaultRegistry(store OptionsStore) *Registry {
	random := NewRandom()
	r := NewRegistry()
	r.Register(TypeRandom, random)
	r.Register(TypePattern, NewPattern())
	r.Register(TypeList, NewList(store, random))
	return r
}

// Register adds or replaces the generator for slug.
func (r *Registry) Register(slug string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[slug] = g
}

// Resolve returns the generator for slug, or ErrUnexpectedValue.
func (r *Registry) Resolve(slug string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[slug]
	if !ok {
		return nil, fmt.Errorf("%w: key type %q", ErrUnexpectedValue, slug)
	}
	return g, nil
}

// Slugs returns the registered slugs in sorted order.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.generators))
	for slug := range r.generators {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
