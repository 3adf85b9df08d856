package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSuspended is returned when the user leaves before submitting. Saved
	// progress stays in the store.
	ErrSuspended = errors.New("tui: session suspended")
)
