package form

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/persist"
)

// Option configures a Controller.
type Option func(*Controller)

// WithStore sets the durable store snapshots are written to. Without a store
// the controller keeps values in memory only.
func WithStore(store persist.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithStorageKey overrides the store slot, persist.DefaultKey by default.
func WithStorageKey(key string) Option {
	return func(c *Controller) {
		c.bridgeOptions = append(c.bridgeOptions, persist.WithKey(key))
	}
}

// WithCodec overrides the snapshot codec.
func WithCodec(codec persist.Codec) Option {
	return func(c *Controller) {
		c.bridgeOptions = append(c.bridgeOptions, persist.WithCodec(codec))
	}
}

// WithDebounce coalesces snapshot writes arriving within d of each other.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.bridgeOptions = append(c.bridgeOptions, persist.WithDebounce(d))
	}
}

// WithLogger sets the logger shared by the controller and its components.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithOnSuccess registers the callback invoked with the final values after
// a successful submission.
func WithOnSuccess(fn func(model.Values)) Option {
	return func(c *Controller) {
		c.onSuccess = fn
	}
}

// WithTabOrder overrides the tab navigation order.
func WithTabOrder(order ...model.TabID) Option {
	return func(c *Controller) {
		c.tabOrder = append([]model.TabID(nil), order...)
	}
}

// WithTextSanitizer strips markup from text values before they are stored.
func WithTextSanitizer(policy *bluemonday.Policy) Option {
	return func(c *Controller) {
		c.sanitizer = policy
	}
}

// WithStrict makes changes to unregistered fields return
// ErrFieldNotRegistered instead of being ignored.
func WithStrict(strict bool) Option {
	return func(c *Controller) {
		c.strict = strict
	}
}
