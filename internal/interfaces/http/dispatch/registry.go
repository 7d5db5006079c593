package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps action names to endpoints.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]Endpoint
}

func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string]Endpoint)}
}

// Register adds an endpoint. Registering an action twice panics.
func (r *Registry) Register(action string, endpoint Endpoint) {
	action = normalizeAction(action)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.endpoints[action]; exists {
		panic(fmt.Sprintf("dispatch: action %q registered twice", action))
	}
	r.endpoints[action] = endpoint
}

func (r *Registry) Lookup(action string) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	endpoint, ok := r.endpoints[normalizeAction(action)]
	return endpoint, ok
}

// Actions returns the registered action names in sorted order.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]string, 0, len(r.endpoints))
	for action := range r.endpoints {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.Trim(action, "/ "))
}
