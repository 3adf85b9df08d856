package registry

import "errors"

var (
	// ErrFieldNotRegistered is returned by SetValue and Clear for names that
	// were never registered. Nothing is changed when it is returned.
	ErrFieldNotRegistered = errors.New("registry: field not registered")
	// ErrInvalidDefinition is returned when a definition has no name.
	ErrInvalidDefinition = errors.New("registry: field definition requires a name")
)
