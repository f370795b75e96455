// Package registry maps fully-qualified type names to construction targets.
//
// Generated descriptor files register their constructors with Default from
// init functions, so a factory can be created from a type name alone.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"ctor-factory/signature"
)

var (
	ErrNotRegistered = errors.New("target not registered")
	ErrDuplicate     = errors.New("target already registered")
	ErrInvalid       = errors.New("invalid target")
)

// Default is the registry used by generated code.
var Default = New()

// Registry is a concurrency-safe set of targets keyed by type name.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]signature.Target
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{targets: make(map[string]signature.Target)}
}

// Register adds a target under its fully-qualified type name.
func (r *Registry) Register(t signature.Target) error {
	if err := t.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	name := t.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.targets[name]; ok {
		return fmt.Errorf("%w: %s (by %s)", ErrDuplicate, name, existing)
	}

	r.targets[name] = t

	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(t signature.Target) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the target registered under name.
func (r *Registry) Lookup(name string) (signature.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[name]
	if !ok {
		return signature.Target{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	return t, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.targets)
}

// MustRegister adds a target to Default and panics on error.
func MustRegister(t signature.Target) {
	Default.MustRegister(t)
}
