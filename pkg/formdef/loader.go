package formdef

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/internal/suggest"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
)

//go:embed definitions/*
var embedded embed.FS

const defaultPath = "definitions/profile.yaml"

// Default returns the bundled profile / interest / setting form.
func Default() (Definition, error) {
	return LoadFS(embedded, defaultPath)
}

// EmbeddedFS exposes the bundled definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "definitions")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses the definition at path inside fsys.
func LoadFS(fsys fs.FS, path string) (Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a document. The source extension selects the format: .hcl
// is decoded as HCL, .json/.yaml/.yml (or no extension) as JSON falling
// back to YAML.
func Parse(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("formdef: file %s is empty", source)
	}

	var doc documentFile
	switch ext := strings.ToLower(filepath.Ext(source)); ext {
	case ".hcl":
		parsed, err := parseHCL(data, source)
		if err != nil {
			return Definition{}, err
		}
		doc = parsed
	case "", ".json", ".yaml", ".yml":
		parsed, err := parseDocument(data, source)
		if err != nil {
			return Definition{}, err
		}
		doc = parsed
	default:
		return Definition{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}

	return normalise(doc, source)
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("formdef: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func parseHCL(data []byte, source string) (documentFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, source)
	if diags.HasErrors() {
		return documentFile{}, fmt.Errorf("formdef: parse %s: %w", source, diags)
	}
	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return documentFile{}, fmt.Errorf("formdef: decode %s: %w", source, diags)
	}
	return decoded.document(), nil
}

var (
	knownKinds = []string{
		string(model.KindText),
		string(model.KindNumber),
		string(model.KindSingleChoice),
		string(model.KindMultiChoice),
		string(model.KindBoolean),
	}
	knownRules = []string{
		string(model.RuleRequired),
		string(model.RuleMin),
		string(model.RuleMax),
		string(model.RulePattern),
	}
)

func normalise(doc documentFile, source string) (Definition, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, source, fmt.Sprintf(format, args...))
	}

	def := Definition{
		ID:         strings.TrimSpace(doc.Form.ID),
		Title:      strings.TrimSpace(doc.Form.Title),
		StorageKey: strings.TrimSpace(doc.Form.StorageKey),
		Source:     source,
	}
	if def.ID == "" {
		return Definition{}, invalid("form id is required")
	}

	if len(doc.Tabs) == 0 {
		for _, id := range model.DefaultTabOrder {
			def.Tabs = append(def.Tabs, Tab{ID: id})
		}
	}
	tabNames := make([]string, 0, len(doc.Tabs))
	for idx, raw := range doc.Tabs {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return Definition{}, invalid("tab at index %d has an empty id", idx)
		}
		for _, existing := range def.Tabs {
			if string(existing.ID) == id {
				return Definition{}, invalid("duplicate tab %q", id)
			}
		}
		def.Tabs = append(def.Tabs, Tab{ID: model.TabID(id), Label: strings.TrimSpace(raw.Label)})
	}
	for _, tab := range def.Tabs {
		tabNames = append(tabNames, string(tab.ID))
	}

	seen := make(map[string]struct{}, len(doc.Fields))
	for idx, raw := range doc.Fields {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return Definition{}, invalid("field at index %d has an empty name", idx)
		}
		if _, dup := seen[name]; dup {
			return Definition{}, invalid("duplicate field %q", name)
		}
		seen[name] = struct{}{}

		tab := strings.TrimSpace(raw.Tab)
		if !contains(tabNames, tab) {
			return Definition{}, invalid("field %q references unknown tab %q%s", name, tab, suggest.Hint(tab, tabNames))
		}

		kind := model.ValueKind(strings.TrimSpace(raw.Kind))
		if kind == "" {
			kind = model.KindText
		}
		if !kind.Valid() {
			return Definition{}, invalid("field %q has unknown kind %q%s", name, kind, suggest.Hint(string(kind), knownKinds))
		}

		field := model.FieldDefinition{
			Name:  model.FieldName(name),
			Tab:   model.TabID(tab),
			Kind:  kind,
			Label: strings.TrimSpace(raw.Label),
		}

		optionSeen := make(map[string]struct{}, len(raw.Options))
		for optIdx, opt := range raw.Options {
			value := strings.TrimSpace(opt.Value)
			if value == "" {
				return Definition{}, invalid("field %q option at index %d has an empty value", name, optIdx)
			}
			if _, dup := optionSeen[value]; dup {
				return Definition{}, invalid("field %q declares option %q twice", name, value)
			}
			optionSeen[value] = struct{}{}
			field.Options = append(field.Options, model.Option{Value: value, Label: strings.TrimSpace(opt.Label)})
		}
		if len(field.Options) > 0 && kind != model.KindSingleChoice && kind != model.KindMultiChoice {
			return Definition{}, invalid("field %q of kind %q cannot declare options", name, kind)
		}

		for ruleIdx, rawRule := range raw.Rules {
			rule, err := normaliseRule(rawRule)
			if err != nil {
				return Definition{}, invalid("field %q rule %d: %v", name, ruleIdx, err)
			}
			field.Rules = append(field.Rules, rule)
		}

		def.Fields = append(def.Fields, field)
	}

	return def, nil
}

func normaliseRule(raw ruleFile) (model.Rule, error) {
	kind := model.RuleKind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if !kind.Valid() {
		return model.Rule{}, fmt.Errorf("unknown rule %q%s", raw.Kind, suggest.Hint(raw.Kind, knownRules))
	}
	message := strings.TrimSpace(raw.Message)
	if message == "" {
		return model.Rule{}, fmt.Errorf("%s rule requires a message", kind)
	}

	switch kind {
	case model.RuleRequired:
		return model.Required(message), nil
	case model.RuleMin, model.RuleMax:
		if raw.Value == nil {
			return model.Rule{}, fmt.Errorf("%s rule requires a value", kind)
		}
		if kind == model.RuleMin {
			return model.Min(*raw.Value, message), nil
		}
		return model.Max(*raw.Value, message), nil
	default:
		if raw.Pattern == "" {
			return model.Rule{}, fmt.Errorf("pattern rule requires a pattern")
		}
		if err := rules.New().Compile(raw.Pattern); err != nil {
			return model.Rule{}, err
		}
		return model.Pattern(raw.Pattern, message), nil
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
