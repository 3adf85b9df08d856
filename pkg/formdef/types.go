package formdef

import (
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Tab is a declared tab and its display label.
type Tab struct {
	ID    model.TabID `json:"id"`
	Label string      `json:"label,omitempty"`
}

// Definition is a validated form document.
type Definition struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title,omitempty"`
	StorageKey string                  `json:"storageKey,omitempty"`
	Tabs       []Tab                   `json:"tabs"`
	Fields     []model.FieldDefinition `json:"fields"`
	Source     string                  `json:"-"`
}

// TabOrder returns the tab ids in declaration order.
func (d Definition) TabOrder() []model.TabID {
	out := make([]model.TabID, len(d.Tabs))
	for i, tab := range d.Tabs {
		out[i] = tab.ID
	}
	return out
}

// TabLabels maps tab ids to their labels, falling back to the id.
func (d Definition) TabLabels() map[model.TabID]string {
	out := make(map[model.TabID]string, len(d.Tabs))
	for _, tab := range d.Tabs {
		label := tab.Label
		if label == "" {
			label = string(tab.ID)
		}
		out[tab.ID] = label
	}
	return out
}

// FormOptions returns the controller options implied by the definition.
func (d Definition) FormOptions() []form.Option {
	opts := []form.Option{form.WithTabOrder(d.TabOrder()...)}
	if d.StorageKey != "" {
		opts = append(opts, form.WithStorageKey(d.StorageKey))
	}
	return opts
}

// Register declares every field on ctrl in definition order.
func (d Definition) Register(ctrl *form.Controller) error {
	return ctrl.Register(d.Fields...)
}

// documentFile is the YAML/JSON wire shape.
type documentFile struct {
	Form   formFile    `json:"form" yaml:"form"`
	Tabs   []tabFile   `json:"tabs" yaml:"tabs"`
	Fields []fieldFile `json:"fields" yaml:"fields"`
}

type formFile struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	StorageKey string `json:"storageKey" yaml:"storageKey"`
}

type tabFile struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

type fieldFile struct {
	Name    string       `json:"name" yaml:"name"`
	Tab     string       `json:"tab" yaml:"tab"`
	Kind    string       `json:"kind" yaml:"kind"`
	Label   string       `json:"label" yaml:"label"`
	Options []optionFile `json:"options" yaml:"options"`
	Rules   []ruleFile   `json:"rules" yaml:"rules"`
}

type optionFile struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type ruleFile struct {
	Kind    string   `json:"kind" yaml:"kind"`
	Value   *float64 `json:"value" yaml:"value"`
	Pattern string   `json:"pattern" yaml:"pattern"`
	Message string   `json:"message" yaml:"message"`
}

// hclFile is the HCL wire shape:
//
//	form "profile" {
//	  tab "profile" { label = "Profile Info" }
//	  field "age" {
//	    tab  = "profile"
//	    kind = "number"
//	    rule "min" {
//	      value   = 1
//	      message = "Age must be at least 1"
//	    }
//	  }
//	}
type hclFile struct {
	Form hclForm `hcl:"form,block"`
}

type hclForm struct {
	ID         string     `hcl:"id,label"`
	Title      string     `hcl:"title,optional"`
	StorageKey string     `hcl:"storage_key,optional"`
	Tabs       []hclTab   `hcl:"tab,block"`
	Fields     []hclField `hcl:"field,block"`
}

type hclTab struct {
	ID    string `hcl:"id,label"`
	Label string `hcl:"label,optional"`
}

type hclField struct {
	Name    string      `hcl:"name,label"`
	Tab     string      `hcl:"tab"`
	Kind    string      `hcl:"kind,optional"`
	Label   string      `hcl:"label,optional"`
	Options []hclOption `hcl:"option,block"`
	Rules   []hclRule   `hcl:"rule,block"`
}

type hclOption struct {
	Value string `hcl:"value,label"`
	Label string `hcl:"label,optional"`
}

type hclRule struct {
	Kind    string   `hcl:"kind,label"`
	Value   *float64 `hcl:"value,optional"`
	Pattern string   `hcl:"pattern,optional"`
	Message string   `hcl:"message"`
}

func (f hclFile) document() documentFile {
	doc := documentFile{
		Form: formFile{ID: f.Form.ID, Title: f.Form.Title, StorageKey: f.Form.StorageKey},
	}
	for _, tab := range f.Form.Tabs {
		doc.Tabs = append(doc.Tabs, tabFile{ID: tab.ID, Label: tab.Label})
	}
	for _, field := range f.Form.Fields {
		out := fieldFile{Name: field.Name, Tab: field.Tab, Kind: field.Kind, Label: field.Label}
		for _, opt := range field.Options {
			out.Options = append(out.Options, optionFile{Value: opt.Value, Label: opt.Label})
		}
		for _, rule := range field.Rules {
			out.Rules = append(out.Rules, ruleFile{Kind: rule.Kind, Value: rule.Value, Pattern: rule.Pattern, Message: rule.Message})
		}
		doc.Fields = append(doc.Fields, out)
	}
	return doc
}
