package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Registry tracks field definitions in registration order alongside their
// current values. Values seeded for names that are not registered yet are
// held back and surface once the field registers, so hydration can run
// before the form declares its fields.
type Registry struct {
	mu      sync.RWMutex
	order   []model.FieldName
	defs    map[model.FieldName]model.FieldDefinition
	values  model.Values
	pending model.Values
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		defs:    make(map[model.FieldName]model.FieldDefinition),
		values:  make(model.Values),
		pending: make(model.Values),
	}
}

// Register upserts a definition keyed by name. It reports whether anything
// changed: registering an identical definition is a no-op, a differing one
// replaces the stored definition while keeping the field's value and its
// original position.
func (r *Registry) Register(def model.FieldDefinition) (bool, error) {
	name := model.FieldName(strings.TrimSpace(string(def.Name)))
	if name == "" {
		return false, ErrInvalidDefinition
	}
	def.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.defs[name]
	if ok && existing.Equal(def) {
		return false, nil
	}
	if !ok {
		r.order = append(r.order, name)
		if seeded, has := r.pending[name]; has {
			r.values[name] = seeded
			delete(r.pending, name)
		}
	}
	r.defs[name] = def.Clone()
	return true, nil
}

// SetValue overwrites the value of a registered field.
func (r *Registry) SetValue(name model.FieldName, value model.FieldValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[name]; !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotRegistered, name)
	}
	if value.IsZero() {
		delete(r.values, name)
		return nil
	}
	r.values[name] = value.Clone()
	return nil
}

// Clear removes the value of a registered field so it reads as unset.
func (r *Registry) Clear(name model.FieldName) error {
	return r.SetValue(name, model.FieldValue{})
}

// Seed loads previously persisted values. Values for registered fields are
// applied immediately; the rest wait for their field to register.
func (r *Registry) Seed(values model.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, value := range values {
		if value.IsZero() {
			continue
		}
		if _, ok := r.defs[name]; ok {
			r.values[name] = value.Clone()
			continue
		}
		r.pending[name] = value.Clone()
	}
}

// Value returns the current value of a field.
func (r *Registry) Value(name model.FieldName) (model.FieldValue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[name]
	if !ok {
		return model.FieldValue{}, false
	}
	return value.Clone(), true
}

// Snapshot returns a deep copy of the values of registered fields. Mutating
// the result never affects the registry.
func (r *Registry) Snapshot() model.Values {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.values.Clone()
}

// Definition returns the definition registered under name.
func (r *Registry) Definition(name model.FieldName) (model.FieldDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return model.FieldDefinition{}, false
	}
	return def.Clone(), true
}

// Has reports whether name is registered.
func (r *Registry) Has(name model.FieldName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.defs[name]
	return ok
}

// AllDefinitions returns every definition in registration order.
func (r *Registry) AllDefinitions() []model.FieldDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FieldDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name].Clone())
	}
	return out
}

// Names returns the registered field names in registration order.
func (r *Registry) Names() []model.FieldName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.FieldName(nil), r.order...)
}

// Len reports how many fields are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
