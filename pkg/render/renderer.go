package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Renderer converts a controller view into a byte representation. Renderers
// are pure functions of the view and options.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options RenderOptions) ([]byte, error)
}
