// Package model defines the typed form state shared by the engine packages.
// Field values are a closed tagged union (text, number, single choice, multi
// choice, boolean) so rules can dispatch on the kind without reflection, and
// every value serialises with its kind attached so persisted snapshots load
// back into the same shape. Rules carry their own user-facing message; a
// field's rules are evaluated in declaration order and the first failure is
// the one reported.
package model
