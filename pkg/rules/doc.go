// Package rules evaluates a single model.Rule against a field value. It is
// pure: no I/O and no shared mutable state apart from a compiled pattern
// cache. Required is the only rule that fails on an absent value; min/max
// only inspect numbers and pattern only inspects text, so rules compose
// explicitly per field.
package rules
