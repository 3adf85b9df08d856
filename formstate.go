// Package formstate is the top-level entry point: load a form definition,
// build a controller for it and render its current view.
package formstate

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

// Definition aliases formdef.Definition.
type Definition = formdef.Definition

// Controller aliases form.Controller.
type Controller = form.Controller

// Option aliases form.Option.
type Option = form.Option

// Values aliases model.Values.
type Values = model.Values

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewForm builds a controller for def with every field registered. Options
// are applied after the ones the definition implies.
func NewForm(def Definition, options ...Option) (*Controller, error) {
	ctrl := form.New(append(def.FormOptions(), options...)...)
	if err := def.Register(ctrl); err != nil {
		_ = ctrl.Close()
		return nil, fmt.Errorf("formstate: register %s: %w", def.ID, err)
	}
	return ctrl, nil
}

// LoadForm reads the definition at path and builds a controller for it.
func LoadForm(path string, options ...Option) (*Controller, Definition, error) {
	def, err := formdef.LoadFile(path)
	if err != nil {
		return nil, Definition{}, err
	}
	ctrl, err := NewForm(def, options...)
	if err != nil {
		return nil, Definition{}, err
	}
	return ctrl, def, nil
}

// DefaultForm builds a controller for the bundled profile form.
func DefaultForm(options ...Option) (*Controller, Definition, error) {
	def, err := formdef.Default()
	if err != nil {
		return nil, Definition{}, err
	}
	ctrl, err := NewForm(def, options...)
	if err != nil {
		return nil, Definition{}, err
	}
	return ctrl, def, nil
}

// RenderHTML renders the controller's current view with the bundled HTML
// renderer and inline styles.
func RenderHTML(ctx context.Context, ctrl *Controller, options RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New(vanilla.WithDefaultStyles())
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, ctrl.View(), options)
}
