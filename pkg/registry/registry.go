// Package registry keeps the output formats a statewrap engine can emit.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/statewrap/pkg/ports"
)

// ErrUnknownFormat is returned by Lookup for formats without an emitter.
var ErrUnknownFormat = errors.New("unknown output format")

// Registry manages the available emitters, keyed by their Format.
type Registry struct {
	mu       sync.RWMutex
	emitters map[string]ports.Emitter
}

// NewRegistry creates a registry holding emitters.
func NewRegistry(emitters ...ports.Emitter) *Registry {
	r := &Registry{
		emitters: make(map[string]ports.Emitter),
	}
	for _, e := range emitters {
		r.Register(e)
	}
	return r
}

// Register adds an emitter to the registry.
// If an emitter with the same format exists, it is overwritten.
func (r *Registry) Register(e ports.Emitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitters[e.Format()] = e
}

// Lookup returns the emitter for format.
// Returns an error if the format is not registered.
func (r *Registry) Lookup(format string) (ports.Emitter, error) {
	r.mu.RLock()
	e, ok := r.emitters[format]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownFormat, format, r.Formats())
	}
	return e, nil
}

// Formats returns the registered formats, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.emitters))
	for f := range r.emitters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
