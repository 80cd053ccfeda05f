package generation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrProviderRegistered is returned when registering a duplicate provider.
var ErrProviderRegistered = errors.New("provider already registered")

// Registry maps model ids to the provider serving them. Providers register
// once at startup; lookups at query time are read-only.
type Registry struct {
	mu             sync.RWMutex
	providers      map[string]Provider
	modelProviders map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers:      make(map[string]Provider),
		modelProviders: make(map[string]string),
	}
}

// Register adds a provider and maps all of its models.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return errors.New("provider cannot be nil")
	}
	name := p.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderRegistered, name)
	}
	r.providers[name] = p
	for _, model := range p.Models() {
		r.modelProviders[model] = name
	}
	return nil
}

// ProviderForModel resolves the provider serving the given model id.
func (r *Registry) ProviderForModel(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.modelProviders[model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, model)
	}
	return r.providers[name], nil
}

// Models returns all registered model ids, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.modelProviders))
	for m := range r.modelProviders {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
