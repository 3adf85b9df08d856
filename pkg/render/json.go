package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
)

// JSON renders the view as indented JSON.
type JSON struct{}

var _ Renderer = JSON{}

func (JSON) Name() string { return "json" }

func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(_ context.Context, view form.View, options RenderOptions) ([]byte, error) {
	payload := struct {
		form.View
		Title  string `json:"title,omitempty"`
		Notice string `json:"notice,omitempty"`
	}{View: view, Title: options.Title, Notice: options.Notice}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: encode view: %w", err)
	}
	return out, nil
}
