package form

import (
	"errors"

	"github.com/goliatone/go-formstate/pkg/registry"
)

var (
	// ErrAlreadySubmitted is returned by mutating calls once the form has
	// been submitted successfully.
	ErrAlreadySubmitted = errors.New("form: already submitted")
	// ErrSubmitting is returned by mutating calls while the success callback
	// of a submission is running.
	ErrSubmitting = errors.New("form: submission in progress")
	// ErrFieldNotRegistered is returned in strict mode for changes that
	// target an unknown field. Same value as registry.ErrFieldNotRegistered.
	ErrFieldNotRegistered = registry.ErrFieldNotRegistered
	// ErrKindMismatch is returned when a value's kind differs from the kind
	// the field was declared with.
	ErrKindMismatch = errors.New("form: value kind does not match field kind")
	// ErrInvalidChoice is returned when a choice value names an option the
	// field does not declare.
	ErrInvalidChoice = errors.New("form: choice is not a field option")
)
