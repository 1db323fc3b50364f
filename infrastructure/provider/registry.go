// Package provider holds the registry of VersionProvider implementations.
package provider

import (
	"fmt"
	"time"

	"github.com/rios0rios0/bumper/domain"
)

// Options carries the index settings a factory needs to build a provider.
type Options struct {
	IndexURL   string        // Base metadata URL, empty for the provider default
	Timeout    time.Duration // Per-request timeout
	MaxRetries int           // Retries on transient index failures
	Token      string        // Auth token for changelog lookups
}

// Factory is a constructor function that creates a VersionProvider for the
// given index options.
type Factory func(opts Options) domain.VersionProvider

// Registry manages all registered version-provider implementations.
type Registry struct {
	providers map[string]Factory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Factory),
	}
}

// Register adds a provider factory under the given name (e.g. "pypi").
func (r *Registry) Register(name string, factory Factory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name.
func (r *Registry) Get(name string, opts Options) (domain.VersionProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q", name)
	}
	return factory(opts), nil
}

// Names returns the list of registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
