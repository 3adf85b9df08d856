package persist

import "errors"

var (
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("persist: store closed")
	// ErrUnknownCodec is returned by CodecByName for unsupported names.
	ErrUnknownCodec = errors.New("persist: unknown codec")
	// ErrEmptyKey is returned when a store operation receives an empty key.
	ErrEmptyKey = errors.New("persist: key is required")
)
