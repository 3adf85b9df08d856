package validation

import "github.com/goliatone/go-formstate/pkg/model"

// Scope selects which fields a validation pass covers.
type Scope struct {
	all   bool
	names map[model.FieldName]struct{}
}

// All covers every registered field.
func All() Scope {
	return Scope{all: true}
}

// Fields covers only the named fields.
func Fields(names ...model.FieldName) Scope {
	set := make(map[model.FieldName]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return Scope{names: set}
}

// IsAll reports whether the scope covers every field.
func (s Scope) IsAll() bool {
	return s.all
}

// Contains reports whether name falls within the scope.
func (s Scope) Contains(name model.FieldName) bool {
	if s.all {
		return true
	}
	_, ok := s.names[name]
	return ok
}
