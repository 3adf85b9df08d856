package validation

import "github.com/goliatone/go-formstate/pkg/model"

// Issue is a single field failure, used for ordered display.
type Issue struct {
	Field   model.FieldName `json:"field"`
	Message string          `json:"message"`
}

// Result captures the failures found within a scope.
type Result struct {
	Scope  Scope
	Errors model.Errors
}

// Valid reports whether every field in scope passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// MergeInto returns a new error map where fields inside the result's scope
// take the result's outcome (set on failure, removed on success) and fields
// outside it keep their existing entry. A full scope replaces the map.
func (r Result) MergeInto(existing model.Errors) model.Errors {
	if r.Scope.IsAll() {
		return r.Errors.Clone()
	}
	out := make(model.Errors, len(existing)+len(r.Errors))
	for name, msg := range existing {
		if r.Scope.Contains(name) {
			continue
		}
		out[name] = msg
	}
	for name, msg := range r.Errors {
		out[name] = msg
	}
	return out
}

// Issues orders errs by the supplied field order; fields missing from order
// follow in no particular order.
func Issues(errs model.Errors, order []model.FieldName) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(errs))
	seen := make(map[model.FieldName]struct{}, len(errs))
	for _, name := range order {
		msg, ok := errs[name]
		if !ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Issue{Field: name, Message: msg})
	}
	for name, msg := range errs {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, Issue{Field: name, Message: msg})
	}
	return out
}
