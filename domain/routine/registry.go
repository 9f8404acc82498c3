package routine

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds routines by name.
type Registry struct {
	defs map[string]Definition
	mu   sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
	}
}

// Register adds a routine.
func (r *Registry) Register(name, description string, fn Routine) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return fmt.Errorf("routine %q: nil function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: %s", ErrRoutineExists, name)
	}
	r.defs[name] = Definition{Name: name, Description: description, Run: fn}
	return nil
}

// Get retrieves a routine by name.
func (r *Registry) Get(name string) (Routine, error) {
	def, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return def.Run, nil
}

// Lookup retrieves the full definition by name.
func (r *Registry) Lookup(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrRoutineNotFound, name)
	}
	return def, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all definitions sorted by name.
func (r *Registry) List() []Definition {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Count returns the number of registered routines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
