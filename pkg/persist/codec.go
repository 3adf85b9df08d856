package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Codec serialises snapshots. Unmarshal must accept what Marshal produced.
type Codec interface {
	Name() string
	Marshal(values model.Values) ([]byte, error)
	Unmarshal(data []byte) (model.Values, error)
}

// JSONCodec encodes snapshots as JSON objects keyed by field name.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(values model.Values) ([]byte, error) {
	return json.Marshal(values)
}

func (JSONCodec) Unmarshal(data []byte) (model.Values, error) {
	values := model.Values{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = model.Values{}
	}
	return values, nil
}

// YAMLCodec encodes snapshots as YAML mappings keyed by field name.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(values model.Values) ([]byte, error) {
	return yaml.Marshal(values)
}

func (YAMLCodec) Unmarshal(data []byte) (model.Values, error) {
	values := model.Values{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = model.Values{}
	}
	return values, nil
}

// CodecByName resolves "json" or "yaml" (empty means json).
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
