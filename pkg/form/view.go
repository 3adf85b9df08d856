package form

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// TabView describes one tab for navigation rendering.
type TabView struct {
	ID     model.TabID `json:"id"`
	Active bool        `json:"active"`
	Last   bool        `json:"last"`
	Fields int         `json:"fields"`
	Errors int         `json:"errors"`
}

// FieldView pairs an active field's definition with its value and error.
type FieldView struct {
	Definition model.FieldDefinition `json:"definition"`
	Value      model.FieldValue      `json:"value"`
	HasValue   bool                  `json:"hasValue"`
	Error      string                `json:"error,omitempty"`
}

// Name returns the field name.
func (f FieldView) Name() model.FieldName {
	return f.Definition.Name
}

// Selected reports whether option is part of the field's choice value.
func (f FieldView) Selected(option string) bool {
	if choice, ok := f.Value.ChoiceValue(); ok {
		return choice == option
	}
	if choices, ok := f.Value.ChoicesValue(); ok {
		for _, choice := range choices {
			if choice == option {
				return true
			}
		}
	}
	return false
}

// View is a read-only snapshot of everything a renderer needs. Rendering is
// a pure function of it.
type View struct {
	ID            string             `json:"id"`
	Phase         Phase              `json:"phase"`
	ActiveTab     model.TabID        `json:"activeTab"`
	Tabs          []TabView          `json:"tabs"`
	ActiveFields  []FieldView        `json:"activeFields"`
	Values        model.Values       `json:"values"`
	Errors        model.Errors       `json:"errors"`
	Issues        []validation.Issue `json:"issues,omitempty"`
	SubmitVisible bool               `json:"submitVisible"`
}

// View snapshots the controller for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := c.registry.Snapshot()
	errs := c.errors.Clone()
	active := c.tabs.Active()
	order := c.tabs.Tabs()

	fields := make(map[model.TabID]int, len(order))
	invalid := make(map[model.TabID]int, len(order))
	for _, def := range c.registry.AllDefinitions() {
		fields[def.Tab]++
		if _, bad := errs[def.Name]; bad {
			invalid[def.Tab]++
		}
	}

	tabViews := make([]TabView, 0, len(order))
	for i, id := range order {
		tabViews = append(tabViews, TabView{
			ID:     id,
			Active: id == active,
			Last:   i == len(order)-1,
			Fields: fields[id],
			Errors: invalid[id],
		})
	}

	activeDefs := c.tabs.FieldsFor(active)
	activeFields := make([]FieldView, 0, len(activeDefs))
	for _, def := range activeDefs {
		value, has := values[def.Name]
		activeFields = append(activeFields, FieldView{
			Definition: def,
			Value:      value.Clone(),
			HasValue:   has,
			Error:      errs[def.Name],
		})
	}

	return View{
		ID:            c.id,
		Phase:         c.phase,
		ActiveTab:     active,
		Tabs:          tabViews,
		ActiveFields:  activeFields,
		Values:        values,
		Errors:        errs,
		Issues:        validation.Issues(errs, c.registry.Names()),
		SubmitVisible: c.tabs.SubmitVisible(),
	}
}
