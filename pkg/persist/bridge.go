package persist

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/model"
)

const defaultTimeout = 5 * time.Second

// Option configures a Bridge.
type Option func(*Bridge)

// WithKey overrides the store slot. Blank keys are ignored.
func WithKey(key string) Option {
	return func(b *Bridge) {
		if key != "" {
			b.key = key
		}
	}
}

// WithCodec overrides the snapshot codec.
func WithCodec(codec Codec) Option {
	return func(b *Bridge) {
		if codec != nil {
			b.codec = codec
		}
	}
}

// WithLogger sets the logger used for downgraded failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithDebounce coalesces writes that arrive within d of each other. Zero
// writes on every change.
func WithDebounce(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.debounce = d
		}
	}
}

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// Bridge mirrors form values into one slot of a Store. A nil store turns
// every operation into a no-op.
type Bridge struct {
	store    Store
	key      string
	codec    Codec
	logger   zerolog.Logger
	debounce time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending model.Values
}

// NewBridge constructs a Bridge writing to store.
func NewBridge(store Store, options ...Option) *Bridge {
	b := &Bridge{
		store:   store,
		key:     DefaultKey,
		codec:   JSONCodec{},
		logger:  zerolog.Nop(),
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Key reports the slot the bridge writes to.
func (b *Bridge) Key() string {
	return b.key
}

// OnValuesChanged overwrites the slot with values, or schedules the write
// when debouncing.
func (b *Bridge) OnValuesChanged(values model.Values) {
	if b.store == nil {
		return
	}
	snapshot := values.Clone()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.debounce <= 0 {
		b.write(snapshot)
		return
	}
	b.pending = snapshot
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.flushPending)
}

// Flush writes any debounced snapshot immediately.
func (b *Bridge) Flush() {
	if b.store == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimer()
	if b.pending != nil {
		b.write(b.pending)
		b.pending = nil
	}
}

// LoadInitial reads the slot. Absent, unreadable or corrupt data yields an
// empty map.
func (b *Bridge) LoadInitial() model.Values {
	if b.store == nil {
		return model.Values{}
	}
	ctx, cancel := b.context()
	defer cancel()

	data, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", b.key).Msg("snapshot read failed; starting empty")
		return model.Values{}
	}
	if !ok || len(data) == 0 {
		return model.Values{}
	}
	values, err := b.codec.Unmarshal(data)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", b.key).Str("codec", b.codec.Name()).Msg("snapshot is corrupt; starting empty")
		return model.Values{}
	}
	for name, value := range values {
		if value.IsZero() {
			delete(values, name)
		}
	}
	return values
}

// Clear drops any pending write and deletes the slot.
func (b *Bridge) Clear() {
	if b.store == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimer()
	b.pending = nil

	ctx, cancel := b.context()
	defer cancel()
	if err := b.store.Delete(ctx, b.key); err != nil {
		b.logger.Warn().Err(err).Str("key", b.key).Msg("snapshot delete failed")
	}
}

// Close flushes pending writes. It does not close the store.
func (b *Bridge) Close() error {
	b.Flush()
	return nil
}

func (b *Bridge) flushPending() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timer = nil
	if b.pending == nil {
		return
	}
	b.write(b.pending)
	b.pending = nil
}

func (b *Bridge) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// write must be called with b.mu held.
func (b *Bridge) write(values model.Values) {
	data, err := b.codec.Marshal(values)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", b.key).Str("codec", b.codec.Name()).Msg("snapshot encode failed")
		return
	}
	ctx, cancel := b.context()
	defer cancel()
	if err := b.store.Set(ctx, b.key, data); err != nil {
		b.logger.Warn().Err(err).Str("key", b.key).Msg("snapshot write failed")
	}
}

func (b *Bridge) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}
