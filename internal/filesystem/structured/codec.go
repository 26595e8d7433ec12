package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec converts between a generic value tree and its on-disk text.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}

var errEmptyDocument = errors.New("empty document")

// JSONCodec writes indented JSON. Every number, integral or not, decodes as
// json.Number so large integers survive a read-modify-write.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(content, '\n'), nil
}

func (JSONCodec) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to unmarshal JSON: unexpected data after top-level value")
	}
	return v, nil
}

// YAMLCodec reads and writes a single YAML document. Mappings decode to
// map[string]any so both codecs yield the same tree shape. Numbers decode by
// their written form rather than their Go type: integral values, including
// float64(2), come back as int and the rest as float64.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(v any) (data []byte, err error) {
	// yaml.v3 panics on kinds it cannot represent, such as funcs and channels.
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("failed to marshal YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to unmarshal YAML: more than one document")
	}
	return normalize(v), nil
}

// normalize rewrites map[any]any nodes produced for non-string keys.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}

// CodecForPath picks YAML for .yaml and .yml files and JSON otherwise.
//
//nolint:ireturn // the codec is chosen at runtime.
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}
