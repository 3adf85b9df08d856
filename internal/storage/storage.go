// Package storage opens the configured durable store and turns storage
// settings into form controller options.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/persist"
)

// ErrUnknownBackend is returned for backends other than memory, file, bolt
// and sqlite.
var ErrUnknownBackend = errors.New("storage: unknown backend")

const (
	boltFile   = "formstate.bolt"
	sqliteFile = "formstate.db"
)

// Handle pairs a store with whatever must be released when the process exits.
type Handle struct {
	Backend string
	Store   persist.Store
	closer  io.Closer
}

// Close releases the underlying database, if any.
func (h *Handle) Close() error {
	if h == nil || h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// Open builds the store described by cfg. For bolt and sqlite a path without
// an extension is treated as a directory holding the database file.
func Open(cfg config.StorageConfig) (*Handle, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "memory":
		return &Handle{Backend: backend, Store: persist.NewMemoryStore()}, nil
	case "file":
		return &Handle{Backend: backend, Store: persist.NewFileStore(cfg.Path)}, nil
	case "bolt":
		path, err := databasePath(cfg.Path, boltFile)
		if err != nil {
			return nil, err
		}
		store, err := persist.OpenBoltStore(path)
		if err != nil {
			return nil, err
		}
		return &Handle{Backend: backend, Store: store, closer: store}, nil
	case "sqlite":
		path, err := databasePath(cfg.Path, sqliteFile)
		if err != nil {
			return nil, err
		}
		store, err := persist.OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return &Handle{Backend: backend, Store: store, closer: store}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// FormOptions maps the storage settings onto controller options.
func (h *Handle) FormOptions(cfg config.StorageConfig) ([]form.Option, error) {
	codec, err := persist.CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	opts := []form.Option{
		form.WithStore(h.Store),
		form.WithCodec(codec),
	}
	if strings.TrimSpace(cfg.Key) != "" {
		opts = append(opts, form.WithStorageKey(cfg.Key))
	}
	if cfg.Debounce > 0 {
		opts = append(opts, form.WithDebounce(cfg.Debounce))
	}
	return opts, nil
}

func databasePath(path, file string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, file)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir %s: %w", filepath.Dir(path), err)
	}
	return path, nil
}
