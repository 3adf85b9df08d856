package model

// FieldName identifies a field. Names are unique within a form instance.
type FieldName string

// TabID identifies a display grouping of fields.
type TabID string

const (
	TabProfile  TabID = "profile"
	TabInterest TabID = "interest"
	TabSetting  TabID = "setting"
)

// DefaultTabOrder is the fixed navigation order used when a form does not
// declare its own tabs.
var DefaultTabOrder = []TabID{TabProfile, TabInterest, TabSetting}

// FieldDefinition describes a registered field. Label is a presentation
// hint. Kind and Options also bound the values the controller accepts;
// validation only looks at Rules.
type FieldDefinition struct {
	Name    FieldName `json:"name" yaml:"name"`
	Tab     TabID     `json:"tab" yaml:"tab"`
	Rules   []Rule    `json:"rules,omitempty" yaml:"rules,omitempty"`
	Kind    ValueKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Options []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is a selectable choice for single or multi choice fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Clone returns a copy that shares no slices with def.
func (def FieldDefinition) Clone() FieldDefinition {
	out := def
	if def.Rules != nil {
		out.Rules = append([]Rule(nil), def.Rules...)
	}
	if def.Options != nil {
		out.Options = append([]Option(nil), def.Options...)
	}
	return out
}

// Equal reports whether two definitions are interchangeable.
func (def FieldDefinition) Equal(other FieldDefinition) bool {
	if def.Name != other.Name || def.Tab != other.Tab || def.Kind != other.Kind || def.Label != other.Label {
		return false
	}
	if len(def.Rules) != len(other.Rules) || len(def.Options) != len(other.Options) {
		return false
	}
	for i := range def.Rules {
		if def.Rules[i] != other.Rules[i] {
			return false
		}
	}
	for i := range def.Options {
		if def.Options[i] != other.Options[i] {
			return false
		}
	}
	return true
}

// Values maps field names to their current value. Unset fields are absent.
type Values map[FieldName]FieldValue

// Clone returns a deep copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for name, value := range v {
		out[name] = value.Clone()
	}
	return out
}

// Native converts the values into plain Go types keyed by string, the shape
// success callbacks and templates consume.
func (v Values) Native() map[string]any {
	out := make(map[string]any, len(v))
	for name, value := range v {
		out[string(name)] = value.Native()
	}
	return out
}

// Errors maps field names to the message of their first failing rule. A
// field is present only while it is invalid.
type Errors map[FieldName]string

// Clone returns a copy of e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for name, msg := range e {
		out[name] = msg
	}
	return out
}

// FormState is the aggregate state owned by a form controller.
type FormState struct {
	Values Values `json:"values"`
	Errors Errors `json:"errors"`
}
