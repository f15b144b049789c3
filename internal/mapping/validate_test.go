package mapping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi-animator/internal/diagnostic"
	"midi-animator/internal/easing"
	"midi-animator/internal/path"
)

func codes(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}

	return out
}

func TestValidate_Valid(t *testing.T) {
	diags := Validate(sampleMappings(), nil)

	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.Warnings)
	assert.Equal(t, []string{"expression_overrides_abs"}, codes(diags.Infos))
	assert.NoError(t, diags.Error())
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name     string
		mapping  Mapping
		errors   []string
		warnings []string
	}{
		{
			name:    "input out of range",
			mapping: Mapping{Name: "m", InputID: 128, Speed: 0.1, Targets: []Target{NewTarget("root.a.b")}},
			errors:  []string{"input_out_of_range"},
		},
		{
			name:    "negative input",
			mapping: Mapping{Name: "m", InputID: -1, Speed: 0.1, Targets: []Target{NewTarget("root.a.b")}},
			errors:  []string{"input_out_of_range"},
		},
		{
			name:     "speed",
			mapping:  Mapping{Name: "m", Speed: 1.5, Targets: []Target{NewTarget("root.a.b")}},
			warnings: []string{"speed_out_of_range"},
		},
		{
			name:     "nan speed",
			mapping:  Mapping{Name: "m", Speed: math.NaN(), Targets: []Target{NewTarget("root.a.b")}},
			warnings: []string{"speed_out_of_range"},
		},
		{
			name:     "unknown curve value",
			mapping:  Mapping{Name: "m", Speed: 0.1, Curve: easing.Mode(40), Targets: []Target{NewTarget("root.a.b")}},
			warnings: []string{"unknown_curve"},
		},
		{
			name:     "no targets",
			mapping:  Mapping{Name: "m", Speed: 0.1},
			warnings: []string{"no_targets"},
		},
		{
			name:     "empty path",
			mapping:  Mapping{Name: "m", Speed: 0.1, Targets: []Target{NewTarget("")}},
			warnings: []string{"empty_path"},
		},
		{
			name:     "wrong prefix",
			mapping:  Mapping{Name: "m", Speed: 0.1, Targets: []Target{NewTarget("bpy.data.x")}},
			warnings: []string{"invalid_path"},
		},
		{
			name:     "malformed path",
			mapping:  Mapping{Name: "m", Speed: 0.1, Targets: []Target{NewTarget("root.a[")}},
			warnings: []string{"invalid_path"},
		},
		{
			name: "drive mode",
			mapping: Mapping{Name: "m", Speed: 0.1, Targets: []Target{
				{Path: "root.a.b", Max: 1, Mode: "SPIN"},
			}},
			errors: []string{"invalid_drive_mode"},
		},
		{
			name: "expression",
			mapping: Mapping{Name: "m", Speed: 0.1, Targets: []Target{
				{Path: "root.a.b", Max: 1, Mode: DriveSet, Expr: "x +"},
			}},
			warnings: []string{"invalid_expression"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate([]Mapping{tt.mapping}, nil)

			if tt.errors == nil {
				assert.Empty(t, diags.Errors)
			} else {
				assert.Equal(t, tt.errors, codes(diags.Errors))
			}

			if tt.warnings == nil {
				assert.Empty(t, diags.Warnings)
			} else {
				assert.Equal(t, tt.warnings, codes(diags.Warnings))
			}
		})
	}
}

func TestValidate_SuggestsFunctions(t *testing.T) {
	ms := []Mapping{{Name: "Wave", Speed: 0.1, Targets: []Target{
		{Path: "root.a.b", Max: 1, Mode: DriveSet, Expr: "sine(time) * x"},
	}}}

	diags := Validate(ms, nil)
	require.Len(t, diags.Warnings, 1)

	w := diags.Warnings[0]
	assert.Equal(t, []string{"sin"}, w.Suggestions)
	assert.Equal(t, `#0 "Wave"`, w.Mapping)
	assert.Equal(t, "root.a.b", w.Target)
	assert.Contains(t, w.String(), "did you mean sin?")
}

func TestValidate_CustomPrefix(t *testing.T) {
	ms := []Mapping{{Name: "m", Speed: 0.1, Targets: []Target{NewTarget(`bpy.objects["Cube"].location[0]`)}}}

	assert.Empty(t, Validate(ms, path.NewResolver("bpy")).Warnings)

	diags := Validate(ms, path.NewResolver(""))
	assert.False(t, diags.HasErrors(), "a foreign root only skips the target")
	assert.Equal(t, []string{"invalid_path"}, codes(diags.Warnings))
}
