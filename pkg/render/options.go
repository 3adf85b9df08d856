package render

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// RenderOptions carry presentation data that is not part of the form state.
type RenderOptions struct {
	// Title is shown above the tab bar.
	Title string
	// TabLabels maps tab ids to display labels. Missing tabs show their id.
	TabLabels map[model.TabID]string
	// Action is the path prefix form posts target, "" for the site root.
	Action string
	// Notice is a one-off status line such as a submission confirmation.
	Notice string
	// Hidden fields are emitted inside every posted form.
	Hidden []HiddenField
	// Restartable offers a control to start a new form once submitted.
	Restartable bool
}

// TabLabel returns the label for id.
func (o RenderOptions) TabLabel(id model.TabID) string {
	if label := strings.TrimSpace(o.TabLabels[id]); label != "" {
		return label
	}
	return string(id)
}

// HiddenField is a hidden input emitted alongside the visible controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField with a trimmed name.
func Hidden(name, value string) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: value}
}

// MergeHiddenFields returns base with fields applied in order. Blank names
// are dropped and later fields win on name collisions.
func MergeHiddenFields(base []HiddenField, fields ...HiddenField) []HiddenField {
	out := make([]HiddenField, 0, len(base)+len(fields))
	index := make(map[string]int, len(base)+len(fields))
	for _, field := range append(append([]HiddenField(nil), base...), fields...) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if pos, ok := index[name]; ok {
			out[pos].Value = field.Value
			continue
		}
		index[name] = len(out)
		out = append(out, HiddenField{Name: name, Value: field.Value})
	}
	return out
}
