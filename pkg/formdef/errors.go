package formdef

import "errors"

var (
	// ErrInvalidDefinition wraps every structural problem found in a document.
	ErrInvalidDefinition = errors.New("formdef: invalid definition")
	// ErrUnsupportedFormat is returned for files that are not YAML, JSON or HCL.
	ErrUnsupportedFormat = errors.New("formdef: unsupported file format")
)
