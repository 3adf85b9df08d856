// Package bootstrap wires configuration, logging, the form definition and
// the configured store into a ready form controller.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/internal/storage"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
)

// Runtime holds everything a binary needs to drive a form.
type Runtime struct {
	Config     config.Config
	Logger     zerolog.Logger
	Definition formdef.Definition
	Storage    *storage.Handle
	Controller *form.Controller

	options []form.Option
}

// Start builds a Runtime from cfg. Log output goes to logOut. Extra options
// are applied after the ones derived from cfg and the definition.
func Start(cfg config.Config, logOut io.Writer, extra ...form.Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	def, err := loadDefinition(cfg.Form)
	if err != nil {
		return nil, err
	}

	handle, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	storeOptions, err := handle.FormOptions(cfg.Storage)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}

	opts := def.FormOptions()
	opts = append(opts, storeOptions...)
	opts = append(opts,
		form.WithLogger(logger),
		form.WithTextSanitizer(bluemonday.StrictPolicy()),
	)
	opts = append(opts, extra...)

	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Definition: def,
		Storage:    handle,
		options:    opts,
	}
	ctrl, err := rt.NewController()
	if err != nil {
		_ = handle.Close()
		return nil, err
	}
	rt.Controller = ctrl

	logger.Info().
		Str("definition", def.ID).
		Str("source", def.Source).
		Str("storage", handle.Backend).
		Int("fields", len(def.Fields)).
		Msg("form ready")

	return rt, nil
}

// NewController builds another controller over the same definition, store
// and options. It loads whatever snapshot the store holds, so after a
// submission it starts empty. The caller closes it.
func (r *Runtime) NewController() (*form.Controller, error) {
	ctrl := form.New(r.options...)
	if err := r.Definition.Register(ctrl); err != nil {
		_ = ctrl.Close()
		return nil, fmt.Errorf("bootstrap: register %s: %w", r.Definition.ID, err)
	}
	return ctrl, nil
}

// Close flushes the controller and releases the store.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Controller.Close(), r.Storage.Close())
}

func loadDefinition(cfg config.FormConfig) (formdef.Definition, error) {
	var (
		def formdef.Definition
		err error
	)
	if path := strings.TrimSpace(cfg.Definition); path != "" {
		def, err = formdef.LoadFile(path)
	} else {
		def, err = formdef.Default()
	}
	if err != nil {
		return formdef.Definition{}, err
	}
	if id := strings.TrimSpace(cfg.ID); id != "" {
		def.ID = id
	}
	return def, nil
}
