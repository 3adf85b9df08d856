package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func sampleValues() Values {
	return Values{
		"firstName":  Text("Ann"),
		"age":        Number(30),
		"domainPref": SingleChoice("backend"),
		"skills":     MultiChoice("typescript", "javascript", "typescript"),
		"newsletter": Boolean(true),
	}
}

func TestValues_JSONKeepsKinds(t *testing.T) {
	data, err := json.Marshal(sampleValues())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Values
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := sampleValues()
	for name, value := range want {
		got, ok := decoded[name]
		if !ok {
			t.Fatalf("field %s missing after decode", name)
		}
		if !got.Equal(value) {
			t.Fatalf("field %s: want %v (%s), got %v (%s)", name, value, value.Kind(), got, got.Kind())
		}
	}
}

func TestValues_YAMLKeepsKinds(t *testing.T) {
	data, err := yaml.Marshal(sampleValues())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Values
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(sampleValues().Native(), decoded.Native()); diff != "" {
		t.Fatalf("native mismatch (-want +got):\n%s", diff)
	}
	if decoded["domainPref"].Kind() != KindSingleChoice {
		t.Fatalf("expected single choice kind, got %s", decoded["domainPref"].Kind())
	}
}

func TestFieldValue_UnknownKind(t *testing.T) {
	var v FieldValue
	err := json.Unmarshal([]byte(`{"kind":"date","value":"2024-01-01"}`), &v)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFieldValue_YAMLRejectsNonFiniteNumber(t *testing.T) {
	var v FieldValue
	err := yaml.Unmarshal([]byte("kind: number\nvalue: .nan\n"), &v)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMultiChoice_NormalisesSet(t *testing.T) {
	got, _ := MultiChoice("nodejs", "", "javascript", "nodejs").ChoicesValue()
	if diff := cmp.Diff([]string{"javascript", "nodejs"}, got); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		kind    ValueKind
		raw     []string
		want    FieldValue
		present bool
		wantErr error
	}{
		{name: "text", kind: KindText, raw: []string{"Ann"}, want: Text("Ann"), present: true},
		{name: "empty text clears", kind: KindText, raw: []string{""}},
		{name: "number", kind: KindNumber, raw: []string{" 42 "}, want: Number(42), present: true},
		{name: "empty number clears", kind: KindNumber, raw: []string{"  "}},
		{name: "bad number", kind: KindNumber, raw: []string{"forty"}, wantErr: ErrInvalidInput},
		{name: "nan", kind: KindNumber, raw: []string{"NaN"}, wantErr: ErrInvalidInput},
		{name: "infinity", kind: KindNumber, raw: []string{"Inf"}, wantErr: ErrInvalidInput},
		{name: "negative infinity", kind: KindNumber, raw: []string{"-inf"}, wantErr: ErrInvalidInput},
		{name: "overflow", kind: KindNumber, raw: []string{"1e400"}, wantErr: ErrInvalidInput},
		{name: "checkbox on", kind: KindBoolean, raw: []string{"on"}, want: Boolean(true), present: true},
		{name: "checkbox missing", kind: KindBoolean, want: Boolean(false), present: true},
		{name: "multi", kind: KindMultiChoice, raw: []string{"b", "a"}, want: MultiChoice("a", "b"), present: true},
		{name: "multi none", kind: KindMultiChoice},
		{name: "single", kind: KindSingleChoice, raw: []string{"remote"}, want: SingleChoice("remote"), present: true},
		{name: "unknown", kind: ValueKind("date"), raw: []string{"x"}, wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, err := ParseInput(tt.kind, tt.raw...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if present != tt.present {
				t.Fatalf("present: want %v, got %v", tt.present, present)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("value: want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFieldDefinition_EqualAndClone(t *testing.T) {
	def := FieldDefinition{
		Name:  "age",
		Tab:   TabProfile,
		Rules: []Rule{Required("Age is required"), Min(1, "Age must be at least 1")},
	}
	clone := def.Clone()
	if !def.Equal(clone) {
		t.Fatalf("clone should equal original")
	}
	clone.Rules[1] = Min(2, "Age must be at least 2")
	if def.Equal(clone) {
		t.Fatalf("changed rules should not compare equal")
	}
	if def.Rules[1].Threshold != 1 {
		t.Fatalf("clone shares rule slice with original")
	}
}
