package template

import (
	"io"
)

// TemplateRenderer executes named templates. When writers are supplied the
// rendered output is also written to each.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
