// Package validation runs field rules across a registry and produces the
// error map. Validation is scoped: submission validates every registered
// field while live feedback validates just the edited field and merges the
// outcome into the existing map without touching other fields.
package validation
