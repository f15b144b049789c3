package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"

	"midi-animator/internal/diagnostic"
	"midi-animator/internal/path"
)

// ErrConfigParse is wrapped by every failure to read a mapping file. An import
// that fails with it leaves the target collection untouched.
var ErrConfigParse = errors.New("invalid mapping configuration")

// TagConfigParse classifies import failures for ftag.Get.
const TagConfigParse ftag.Kind = "config_parse"

// Format is a mapping file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}

	return "json"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("%w: unsupported file extension %q", ErrConfigParse, filepath.Ext(p))
	}
}

// Parse decodes a mapping array. Missing keys take their defaults; values are
// neither validated nor normalized.
func Parse(data []byte, format Format) ([]Mapping, error) {
	var ms []Mapping

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ms); err != nil {
			return nil, fmt.Errorf("%w: failed to parse mapping YAML: %w", ErrConfigParse, err)
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("%w: empty mapping file", ErrConfigParse)
		}

		if err := json.Unmarshal(data, &ms); err != nil {
			return nil, fmt.Errorf("%w: failed to parse mapping JSON: %w", ErrConfigParse, err)
		}
	}

	return ms, nil
}

// Load parses, validates and normalizes mapping data. Validation errors fail
// the load; the diagnostics are returned either way.
func Load(data []byte, format Format, prefix string) ([]Mapping, *diagnostic.Diagnostics, error) {
	ms, err := Parse(data, format)
	if err != nil {
		return nil, nil, err
	}

	diags := Validate(ms, path.NewResolver(prefix))
	if diags.HasErrors() {
		return nil, diags, fmt.Errorf("%w: %w", ErrConfigParse, diags.Error())
	}

	for i := range ms {
		ms[i].Normalize()
	}

	return ms, diags, nil
}

// LoadFile loads a mapping file, choosing the format by extension. Errors are
// wrapped with a user-facing description.
func LoadFile(p, prefix string) ([]Mapping, *diagnostic.Diagnostics, error) {
	ms, diags, err := loadFile(p, prefix)
	if err != nil {
		return nil, diags, fault.Wrap(err,
			fmsg.WithDesc("load mappings", fmt.Sprintf("Could not import mappings from %s", p)),
			ftag.With(TagConfigParse),
		)
	}

	return ms, diags, nil
}

func loadFile(p, prefix string) ([]Mapping, *diagnostic.Diagnostics, error) {
	format, err := FormatFromPath(p)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read mapping file %s: %w", ErrConfigParse, p, err)
	}

	return Load(data, format, prefix)
}

// Marshal serializes mappings. Runtime-only fields are omitted.
func Marshal(ms []Mapping, format Format) ([]byte, error) {
	out := make([]Mapping, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
		if out[i].Targets == nil {
			out[i].Targets = []Target{}
		}
	}

	if format == FormatYAML {
		return yaml.Marshal(out)
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// WriteFile writes mappings to p, choosing the format by extension.
func WriteFile(ms []Mapping, p string) error {
	format, err := FormatFromPath(p)
	if err != nil {
		return err
	}

	data, err := Marshal(ms, format)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", p, err)
	}

	return nil
}
