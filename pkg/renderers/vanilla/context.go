package vanilla

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

// buildContext flattens the view into plain maps so templates never depend
// on Go method sets.
func buildContext(view form.View, options render.RenderOptions, stylesheet string) map[string]any {
	action := strings.TrimRight(options.Action, "/")

	hidden := make([]map[string]any, 0, len(options.Hidden)+1)
	for _, field := range render.MergeHiddenFields(options.Hidden, render.Hidden("_tab", string(view.ActiveTab))) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	tabs := make([]map[string]any, 0, len(view.Tabs))
	for _, tab := range view.Tabs {
		tabs = append(tabs, map[string]any{
			"id":     string(tab.ID),
			"label":  options.TabLabel(tab.ID),
			"active": tab.Active,
			"errors": tab.Errors,
			"action": action + "/tabs/" + url.PathEscape(string(tab.ID)),
		})
	}

	labels := make(map[model.FieldName]string, len(view.ActiveFields))
	fields := make([]map[string]any, 0, len(view.ActiveFields))
	for _, field := range view.ActiveFields {
		def := field.Definition
		labels[def.Name] = fieldLabel(def)
		kind := def.Kind
		if kind == "" {
			kind = model.KindText
		}
		checked, _ := field.Value.BoolValue()

		choices := make([]map[string]any, 0, len(def.Options))
		for _, opt := range def.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			choices = append(choices, map[string]any{
				"value":    opt.Value,
				"label":    label,
				"selected": field.Selected(opt.Value),
			})
		}

		fields = append(fields, map[string]any{
			"id":       "fs-" + string(def.Name),
			"name":     string(def.Name),
			"label":    fieldLabel(def),
			"kind":     string(kind),
			"value":    field.Value.String(),
			"checked":  checked,
			"options":  choices,
			"error":    field.Error,
			"required": isRequired(def),
		})
	}

	issues := make([]map[string]any, 0, len(view.Issues))
	for _, issue := range view.Issues {
		label, ok := labels[issue.Field]
		if !ok {
			label = string(issue.Field)
		}
		issues = append(issues, map[string]any{
			"field":   string(issue.Field),
			"label":   label,
			"message": issue.Message,
		})
	}

	return map[string]any{
		"form": map[string]any{
			"id":            view.ID,
			"title":         options.Title,
			"notice":        options.Notice,
			"phase":         string(view.Phase),
			"submitted":     view.Phase == form.PhaseSubmitted,
			"activeTab":     string(view.ActiveTab),
			"submitVisible": view.SubmitVisible,
			"saveAction":    action + "/fields",
			"submitAction":  action + "/submit",
			"newAction":     action + "/new",
			"restartable":   options.Restartable,
			"hidden":        hidden,
			"stylesheet":    stylesheet,
		},
		"tabs":   tabs,
		"fields": fields,
		"issues": issues,
	}
}

func fieldLabel(def model.FieldDefinition) string {
	if def.Label != "" {
		return def.Label
	}
	return string(def.Name)
}

func isRequired(def model.FieldDefinition) bool {
	for _, rule := range def.Rules {
		if rule.Kind == model.RuleRequired {
			return true
		}
	}
	return false
}
