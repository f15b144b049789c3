package path

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "root.a.b.c", []string{"root", "a", "b", "c"}},
		{"single", "root", []string{"root"}},
		{"quoted dot", `root.nodes["Group.001"].inputs[2]`, []string{"root", `nodes["Group.001"]`, "inputs[2]"}},
		{"single quotes", `root.objects['My.Cube'].location[0]`, []string{"root", `objects['My.Cube']`, "location[0]"}},
		{"bracket in quotes", `root.m["a]b.c"].x`, []string{"root", `m["a]b.c"]`, "x"}},
		{"other quote inside", `root.m["it's.here"].x`, []string{"root", `m["it's.here"]`, "x"}},
		{"trailing dot", "root.a.", []string{"root", "a", ""}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestSplit_NotNaive(t *testing.T) {
	in := `root.objects["Cube.001"].scale[1]`

	naive := strings.Split(in, ".")
	require.Len(t, naive, 4, "a plain dot split breaks the quoted key apart")

	assert.Equal(t, []string{"root", `objects["Cube.001"]`, "scale[1]"}, Split(in))
}

func TestParse(t *testing.T) {
	p, err := Parse(`root.objects['Cube'].location[0]`)
	require.NoError(t, err)
	require.Len(t, p.Segments, 3)

	assert.Equal(t, "root", p.Root())
	assert.Equal(t, "objects", p.Segments[1].Name)
	require.NotNil(t, p.Segments[1].Key)
	assert.Equal(t, "Cube", p.Segments[1].Key.Value())
	assert.Equal(t, 0, p.Segments[2].Key.Value())
	assert.Equal(t, `root.objects["Cube"].location[0]`, p.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"empty segment", "root..a"},
		{"trailing dot", "root.a."},
		{"bad identifier", "root.1abc"},
		{"unterminated bracket", "root.a[0"},
		{"text after bracket", "root.a[0]b"},
		{"double bracket", "root.a[0][1]"},
		{"empty key", "root.a[]"},
		{"unquoted key", "root.objects[Cube]"},
		{"negative key", "root.a[-1]"},
		{"unterminated quote", `root.objects["Cube].x`},
		{"mismatched quotes", `root.objects["Cube'].x`},
		{"stray close", "root.a]"},
		{"call syntax", "root.__import__('os')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.ErrorIs(t, err, ErrResolution)
		})
	}
}
