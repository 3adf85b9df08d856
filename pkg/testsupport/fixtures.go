// Package testsupport holds fixtures shared by renderer, terminal and HTTP
// adapter tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/model"
)

// ProfileDefinition returns the bundled profile / interest / setting form.
func ProfileDefinition(t *testing.T) formdef.Definition {
	t.Helper()
	def, err := formdef.Default()
	if err != nil {
		t.Fatalf("load default definition: %v", err)
	}
	return def
}

// NewProfileController builds a controller with the bundled form registered.
// Extra options are applied after the definition's own.
func NewProfileController(t *testing.T, opts ...form.Option) *form.Controller {
	t.Helper()
	def := ProfileDefinition(t)
	ctrl := form.New(append(def.FormOptions(), opts...)...)
	if err := def.Register(ctrl); err != nil {
		t.Fatalf("register definition: %v", err)
	}
	return ctrl
}

// ValidProfile is a set of values that satisfies every rule of the bundled form.
func ValidProfile() model.Values {
	return model.Values{
		"firstName":  model.Text("Ann"),
		"age":        model.Number(30),
		"email":      model.Text("a@b.com"),
		"domainPref": model.SingleChoice("backend"),
		"skills":     model.MultiChoice("javascript", "nodejs"),
		"newsletter": model.Boolean(true),
	}
}

// Fill applies values in registration order through OnFieldChange.
func Fill(t *testing.T, ctrl *form.Controller, values model.Values) {
	t.Helper()
	for _, def := range ctrl.Definitions() {
		value, ok := values[def.Name]
		if !ok {
			continue
		}
		if err := ctrl.OnFieldChange(def.Name, value); err != nil {
			t.Fatalf("change %s: %v", def.Name, err)
		}
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
