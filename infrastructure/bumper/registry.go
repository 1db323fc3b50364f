// Package bumper holds the registry of Bumper dialect implementations.
package bumper

import (
	"github.com/rios0rios0/bumper/domain"
)

// Registry manages all registered Bumper dialects. Dialect selection is by
// document path, mirroring how each implementation reports the files it
// handles.
type Registry struct {
	bumpers []domain.Bumper
}

// NewRegistry creates an empty bumper registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a bumper. Registration order is selection order.
func (r *Registry) Register(b domain.Bumper) {
	r.bumpers = append(r.bumpers, b)
}

// ForTarget returns the first registered bumper that likes the given
// document path, or nil when none does.
func (r *Registry) ForTarget(target string) domain.Bumper {
	for _, b := range r.bumpers {
		if b.Likes(target) {
			return b
		}
	}
	return nil
}

// Default returns the first registered bumper. It serves ad-hoc bumps that
// have no document to select a dialect by.
func (r *Registry) Default() domain.Bumper {
	if len(r.bumpers) == 0 {
		return nil
	}
	return r.bumpers[0]
}

// Names returns the list of registered dialect names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bumpers))
	for _, b := range r.bumpers {
		names = append(names, b.Name())
	}
	return names
}
