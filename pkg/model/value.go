package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind tags the variant held by a FieldValue.
type ValueKind string

const (
	KindText         ValueKind = "text"
	KindNumber       ValueKind = "number"
	KindSingleChoice ValueKind = "single"
	KindMultiChoice  ValueKind = "multi"
	KindBoolean      ValueKind = "boolean"
)

var (
	// ErrUnknownKind is returned when decoding or parsing a value whose kind
	// is not one of the ValueKind constants.
	ErrUnknownKind = errors.New("model: unknown value kind")
	// ErrInvalidInput is returned when raw input cannot be parsed into the
	// requested kind.
	ErrInvalidInput = errors.New("model: invalid input")
)

// Valid reports whether k is a known kind.
func (k ValueKind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindSingleChoice, KindMultiChoice, KindBoolean:
		return true
	default:
		return false
	}
}

// FieldValue is a tagged union over the supported input kinds. The zero value
// holds no variant and is treated as absent.
type FieldValue struct {
	kind    ValueKind
	text    string
	number  float64
	choices []string
	flag    bool
}

// Text wraps free-form text input.
func Text(s string) FieldValue {
	return FieldValue{kind: KindText, text: s}
}

// Number wraps a numeric input.
func Number(n float64) FieldValue {
	return FieldValue{kind: KindNumber, number: n}
}

// SingleChoice wraps the selected option of a radio group or select.
func SingleChoice(s string) FieldValue {
	return FieldValue{kind: KindSingleChoice, text: s}
}

// MultiChoice wraps a set of selected options. Duplicates and blank entries
// are dropped and the set is kept sorted so equal sets compare equal.
func MultiChoice(values ...string) FieldValue {
	seen := make(map[string]struct{}, len(values))
	set := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	sort.Strings(set)
	return FieldValue{kind: KindMultiChoice, choices: set}
}

// Boolean wraps a checkbox style toggle.
func Boolean(b bool) FieldValue {
	return FieldValue{kind: KindBoolean, flag: b}
}

// Kind reports the variant held by v. Empty for the zero value.
func (v FieldValue) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether v holds no variant.
func (v FieldValue) IsZero() bool {
	return v.kind == ""
}

// TextValue returns the text payload when v is a Text value.
func (v FieldValue) TextValue() (string, bool) {
	return v.text, v.kind == KindText
}

// IsFinite reports whether n is neither NaN nor an infinity. Only finite
// numbers are valid Number payloads.
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// NumberValue returns the numeric payload when v is a Number value.
func (v FieldValue) NumberValue() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// ChoiceValue returns the selected option when v is a SingleChoice value.
func (v FieldValue) ChoiceValue() (string, bool) {
	return v.text, v.kind == KindSingleChoice
}

// ChoicesValue returns a copy of the selected set when v is a MultiChoice value.
func (v FieldValue) ChoicesValue() ([]string, bool) {
	if v.kind != KindMultiChoice {
		return nil, false
	}
	return append([]string{}, v.choices...), true
}

// BoolValue returns the flag when v is a Boolean value.
func (v FieldValue) BoolValue() (bool, bool) {
	return v.flag, v.kind == KindBoolean
}

// Clone returns a copy of v that shares no backing arrays.
func (v FieldValue) Clone() FieldValue {
	out := v
	if v.choices != nil {
		out.choices = append([]string{}, v.choices...)
	}
	return out
}

// Equal reports whether two values hold the same variant and payload.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text == other.text
	case KindNumber:
		return v.number == other.number
	case KindBoolean:
		return v.flag == other.flag
	case KindMultiChoice:
		if len(v.choices) != len(other.choices) {
			return false
		}
		for i := range v.choices {
			if v.choices[i] != other.choices[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Native returns the payload as a plain Go value: string, float64, []string
// or bool. The zero value returns nil.
func (v FieldValue) Native() any {
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text
	case KindNumber:
		return v.number
	case KindMultiChoice:
		return append([]string{}, v.choices...)
	case KindBoolean:
		return v.flag
	default:
		return nil
	}
}

// String renders v for logs and plain text output.
func (v FieldValue) String() string {
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindMultiChoice:
		return strings.Join(v.choices, ", ")
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

type jsonValue struct {
	Kind  ValueKind       `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes v as {"kind": ..., "value": ...}.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(v.Native())
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue{Kind: v.kind, Value: raw})
}

// UnmarshalJSON decodes the shape produced by MarshalJSON.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = FieldValue{}
		return nil
	}
	var wire jsonValue
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	decoded, err := decodeKind(wire.Kind, func(target any) error {
		return json.Unmarshal(wire.Value, target)
	})
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

type yamlValue struct {
	Kind  ValueKind `yaml:"kind"`
	Value any       `yaml:"value"`
}

// MarshalYAML encodes v with the same shape as MarshalJSON.
func (v FieldValue) MarshalYAML() (any, error) {
	if v.IsZero() {
		return nil, nil
	}
	return yamlValue{Kind: v.kind, Value: v.Native()}, nil
}

// UnmarshalYAML decodes the shape produced by MarshalYAML.
func (v *FieldValue) UnmarshalYAML(node *yaml.Node) error {
	var wire struct {
		Kind  ValueKind `yaml:"kind"`
		Value yaml.Node `yaml:"value"`
	}
	if err := node.Decode(&wire); err != nil {
		return err
	}
	decoded, err := decodeKind(wire.Kind, wire.Value.Decode)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeKind(kind ValueKind, decode func(any) error) (FieldValue, error) {
	switch kind {
	case KindText, KindSingleChoice:
		var s string
		if err := decode(&s); err != nil {
			return FieldValue{}, fmt.Errorf("model: decode %s value: %w", kind, err)
		}
		if kind == KindText {
			return Text(s), nil
		}
		return SingleChoice(s), nil
	case KindNumber:
		var n float64
		if err := decode(&n); err != nil {
			return FieldValue{}, fmt.Errorf("model: decode number value: %w", err)
		}
		if !IsFinite(n) {
			return FieldValue{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidInput, n)
		}
		return Number(n), nil
	case KindMultiChoice:
		var set []string
		if err := decode(&set); err != nil {
			return FieldValue{}, fmt.Errorf("model: decode multi value: %w", err)
		}
		return MultiChoice(set...), nil
	case KindBoolean:
		var b bool
		if err := decode(&b); err != nil {
			return FieldValue{}, fmt.Errorf("model: decode boolean value: %w", err)
		}
		return Boolean(b), nil
	default:
		return FieldValue{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ParseInput converts raw control input into a value of the given kind. The
// second return is false when the input is empty and the field should be
// treated as unset. Checkbox style booleans accept "on" as true and treat an
// empty submission as false.
func ParseInput(kind ValueKind, raw ...string) (FieldValue, bool, error) {
	first := ""
	if len(raw) > 0 {
		first = raw[0]
	}
	switch kind {
	case KindText:
		if first == "" {
			return FieldValue{}, false, nil
		}
		return Text(first), true, nil
	case KindSingleChoice:
		if strings.TrimSpace(first) == "" {
			return FieldValue{}, false, nil
		}
		return SingleChoice(first), true, nil
	case KindNumber:
		trimmed := strings.TrimSpace(first)
		if trimmed == "" {
			return FieldValue{}, false, nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || !IsFinite(n) {
			return FieldValue{}, false, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, trimmed)
		}
		return Number(n), true, nil
	case KindMultiChoice:
		value := MultiChoice(raw...)
		if len(value.choices) == 0 {
			return FieldValue{}, false, nil
		}
		return value, true, nil
	case KindBoolean:
		trimmed := strings.ToLower(strings.TrimSpace(first))
		switch trimmed {
		case "", "off":
			return Boolean(false), true, nil
		case "on":
			return Boolean(true), true, nil
		}
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return FieldValue{}, false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidInput, trimmed)
		}
		return Boolean(b), true, nil
	default:
		return FieldValue{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
