package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Decode reads a JSON manifest document from r. Numbers are kept as
// json.Number so numeric literals survive the round trip unmangled.
func Decode(r io.Reader) (Manifest, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	return m, nil
}

// DecodeYAML reads a YAML manifest document from r.
func DecodeYAML(r io.Reader) (Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	// Decode into a plain map: yaml.v3 would otherwise reuse the named
	// Manifest type for every nested mapping, breaking map[string]any asserts.
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	return Manifest(m), nil
}

// Load reads a manifest file. Files with a .yaml or .yml extension are
// decoded as YAML, everything else as JSON.
func Load(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return Decode(f)
	}
}

// Encode writes the manifest to w as JSON with two-space indentation and a
// trailing newline. Map keys serialize in sorted order, so output is
// deterministic.
func Encode(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	return nil
}

// EncodeYAML writes the manifest to w as YAML with two-space indentation.
func EncodeYAML(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(normalizeNumbers(map[string]any(m))); err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	return enc.Close()
}

// normalizeNumbers converts json.Number values back to native numbers so
// JSON-decoded manifests serialize as YAML numbers, not quoted strings.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = normalizeNumbers(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = normalizeNumbers(val)
		}
		return result
	case OrderedURLs:
		result := make(OrderedURLs, len(v))
		for i, entry := range v {
			result[i] = URLEntry{Key: entry.Key, Value: normalizeNumbers(entry.Value)}
		}
		return result
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return value
	}
}
