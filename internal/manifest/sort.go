package manifest

import (
	"bytes"
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// URLEntry pairs a content key with its URL descriptor.
type URLEntry struct {
	Key   string
	Value any
}

// OrderedURLs is a urls mapping that serializes its entries in a fixed
// order. Plain maps marshal sorted by key, which would destroy the
// sorted-by-URL ordering the output format requires.
type OrderedURLs []URLEntry

// MarshalJSON writes the entries as a JSON object in slice order.
func (o OrderedURLs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalNoEscape(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the entries as a YAML mapping in slice order.
func (o OrderedURLs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range o {
		var key, value yaml.Node
		if err := key.Encode(entry.Key); err != nil {
			return nil, err
		}
		if err := value.Encode(entry.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// marshalNoEscape marshals without HTML escaping, so URL metacharacters
// come out literally like the rest of the document.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SortURLs replaces the root URL source mapping with one that serializes in
// ascending URL order. Composite descriptors sort by their url field.
// Entries with equal URLs tie-break on the content key so the order stays
// deterministic. A manifest without URL sources is left untouched.
func SortURLs(m Manifest) {
	sources, _ := m["sources"].(map[string]any)
	files, _ := sources[FilesSource].(map[string]any)
	urls, ok := files["urls"].(map[string]any)
	if !ok || len(urls) == 0 {
		return
	}

	entries := make(OrderedURLs, 0, len(urls))
	for key, value := range urls {
		entries = append(entries, URLEntry{Key: key, Value: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := urlSortKey(entries[i].Value), urlSortKey(entries[j].Value)
		if a != b {
			return a < b
		}
		return entries[i].Key < entries[j].Key
	})

	files["urls"] = entries
}

// urlSortKey extracts the URL string a descriptor sorts by.
func urlSortKey(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		if url, ok := v["url"].(string); ok {
			return url
		}
	}
	return ""
}
