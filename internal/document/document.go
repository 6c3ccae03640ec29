// Package document reads and writes the JSON, YAML and TOML documents used by
// the offline commands. Every format is normalized through JSON so the
// apitypes JSON tags define the shape of all three.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/romyengine/romy/apitypes"
	"github.com/romyengine/romy/input"
)

// Format names a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown document format")

// ParseFormat accepts json, yaml, yml and toml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks the format from a file extension. Unknown extensions are JSON.
func FormatOf(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return f
}

// LoadPool reads a pool document from path.
func LoadPool(path string) (input.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return input.Pool{}, err
	}
	pool, err := DecodePool(data, FormatOf(path))
	if err != nil {
		return input.Pool{}, fmt.Errorf("%s: %w", path, err)
	}
	return pool, nil
}

// DecodePool parses a pool document: a "devices" list in the same shape the
// API's assign request uses.
func DecodePool(data []byte, f Format) (input.Pool, error) {
	var req apitypes.AssignRequest
	if err := Decode(data, f, &req); err != nil {
		return input.Pool{}, err
	}
	return req.Pool()
}

// Decode parses data in format f into v using v's JSON tags. Unknown fields
// are rejected.
func Decode(data []byte, f Format, v any) error {
	raw, err := toJSON(data, f)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", f, err)
	}
	return nil
}

func toJSON(data []byte, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return data, nil
	case YAML:
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if m == nil {
			m = map[string]any{}
		}
		return json.Marshal(m)
	case TOML:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		return json.Marshal(tree.ToMap())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Encode renders v, through its JSON form, in format f. v must encode to a
// JSON object. Null members are left out of TOML, which has no null.
func Encode(v any, f Format) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if f == JSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	m, ok := normalize(generic, f == TOML).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("encode %s: top level must be an object", f)
	}

	switch f {
	case YAML:
		return yaml.Marshal(m)
	case TOML:
		tree, err := toml.TreeFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		s, err := tree.ToTomlString()
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return []byte(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// normalize turns json.Number into int64 or float64 and, when dropNull is
// set, removes null members and array elements.
func normalize(v any, dropNull bool) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if e == nil && dropNull {
				continue
			}
			out[k] = normalize(e, dropNull)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if e == nil && dropNull {
				continue
			}
			out = append(out, normalize(e, dropNull))
		}
		return out
	}
	return v
}
