package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for scene files whose extension is neither JSON nor YAML.
var ErrFormat = errors.New("unsupported document format")

// DecodeJSON decodes a JSON object into a document. Integral numbers become
// int so that integer slots keep their type across writes.
func DecodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	return normalizeNumbers(doc).(map[string]any), nil
}

// DecodeYAML decodes a YAML mapping into a document.
func DecodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML document: %w", err)
	}

	if doc == nil {
		doc = map[string]any{}
	}

	return doc, nil
}

// LoadFile reads a JSON or YAML scene file into a Tree.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	var doc map[string]any

	switch ext(path) {
	case ".json":
		doc, err = DecodeJSON(data)
	case ".yaml", ".yml":
		doc, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}

	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}

	return NewTree(doc), nil
}

// WriteFile stores the tree's document as JSON or YAML, chosen by extension.
func (t *Tree) WriteFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch ext(path) {
	case ".json":
		data, err = json.MarshalIndent(t.root, "", "    ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t.root)
	default:
		return fmt.Errorf("%w: %s", ErrFormat, path)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene file %s: %w", path, err)
	}

	return nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func normalizeNumbers(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		for k, e := range tv {
			tv[k] = normalizeNumbers(e)
		}

		return tv
	case []any:
		for i, e := range tv {
			tv[i] = normalizeNumbers(e)
		}

		return tv
	case json.Number:
		if i, err := tv.Int64(); err == nil && !strings.ContainsAny(tv.String(), ".eE") {
			return int(i)
		}

		f, _ := tv.Float64()

		return f
	default:
		return v
	}
}
