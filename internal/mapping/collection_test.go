package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midi-animator/internal/event"
)

func TestCollection_AddFromMonitor(t *testing.T) {
	c := NewCollection()

	i := c.AddFromMonitor(event.Snapshot{})
	m, ok := c.At(i)
	require.True(t, ok)
	assert.Equal(t, NewMappingName, m.Name)
	assert.Equal(t, []Target{NewTarget("")}, m.Targets)

	i = c.AddFromMonitor(event.Snapshot{Event: event.Event{Kind: event.NoteEvent, ID: 36, Value: 90}, Valid: true})
	m, _ = c.At(i)
	assert.Equal(t, "Note 36", m.Name)
	assert.Equal(t, 36, m.InputID)
	assert.True(t, m.KeyMode)

	i = c.AddFromMonitor(event.Snapshot{Event: event.Event{Kind: event.ContinuousControl, ID: 7}, Valid: true})
	m, _ = c.At(i)
	assert.Equal(t, "CC 7", m.Name)
	assert.False(t, m.KeyMode)
	assert.Equal(t, 3, c.Len())
}

func TestCollection_Duplicate(t *testing.T) {
	c := NewCollection(sampleMappings()...)

	i, err := c.Duplicate(0)
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	src, _ := c.At(0)
	dup, _ := c.At(i)
	assert.Equal(t, "Lid Copy", dup.Name)
	assert.Equal(t, src.Targets, dup.Targets)
	assert.Zero(t, dup.TargetValue)

	dup.Targets[0].Path = "root.changed.x"
	assert.NotEqual(t, "root.changed.x", c.Mappings[0].Targets[0].Path, "targets are deep copied")

	_, err = c.Duplicate(9)
	require.ErrorIs(t, err, ErrIndex)
}

func TestCollection_Remove(t *testing.T) {
	c := NewCollection(sampleMappings()...)

	require.NoError(t, c.Remove(0))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Pad", c.Mappings[0].Name)

	require.ErrorIs(t, c.Remove(1), ErrIndex)
	require.ErrorIs(t, c.Remove(-1), ErrIndex)

	_, ok := c.At(1)
	assert.False(t, ok)
}

func TestCollection_Targets(t *testing.T) {
	c := NewCollection(NewMapping("m"))

	require.NoError(t, c.AddTarget(0))
	require.NoError(t, c.AddTarget(0))
	require.NoError(t, c.SetTargetPath(0, 1, "root.a.b"))
	assert.Equal(t, "root.a.b", c.Mappings[0].Targets[1].Path)

	require.NoError(t, c.RemoveTarget(0))
	assert.Len(t, c.Mappings[0].Targets, 1)
	require.NoError(t, c.RemoveTarget(0))
	require.NoError(t, c.RemoveTarget(0), "removing from an empty list is a no-op")
	assert.Empty(t, c.Mappings[0].Targets)

	require.ErrorIs(t, c.AddTarget(3), ErrIndex)
	require.ErrorIs(t, c.RemoveTarget(3), ErrIndex)
	require.ErrorIs(t, c.SetTargetPath(0, 0, "root.a.b"), ErrIndex)
}

func TestCollection_ImportIsAtomic(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection(NewMapping("existing"))

	bad := filepath.Join(dir, "bad.json")
	data := `[{"name": "ok", "targets": [{"path": "root.a.b"}]}, {"name": "broken", "cc": 500}]`
	require.NoError(t, os.WriteFile(bad, []byte(data), 0o644))

	_, err := c.Import(bad, "")
	require.ErrorIs(t, err, ErrConfigParse)
	assert.Equal(t, 1, c.Len(), "a failed import commits nothing")

	good := filepath.Join(dir, "good.json")
	require.NoError(t, WriteFile(sampleMappings(), good))

	_, err = c.Import(good, "")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len(), "imports append")

	_, err = c.ImportData([]byte("[{]"), FormatJSON, "")
	require.ErrorIs(t, err, ErrConfigParse)
	assert.Equal(t, 3, c.Len())
}

func TestCollection_Export(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	c := NewCollection(sampleMappings()...)
	require.NoError(t, c.Export(out))

	back := NewCollection()
	_, err := back.Import(out, "")
	require.NoError(t, err)
	assert.Equal(t, persisted(sampleMappings()), back.Mappings)
}

func TestCollection_ExportForeignPathRoundTrips(t *testing.T) {
	m := NewMapping("Host")
	m.InputID = 12
	m.Targets = []Target{NewTarget(`bpy.data.objects['Cube'].location[0]`)}

	out := filepath.Join(t.TempDir(), "host.json")
	require.NoError(t, NewCollection(m).Export(out))

	back := NewCollection()
	diags, err := back.Import(out, "")
	require.NoError(t, err)
	assert.Equal(t, persisted([]Mapping{m}), back.Mappings)

	require.NotNil(t, diags)
	assert.Empty(t, diags.Errors)
	assert.Equal(t, []string{"invalid_path"}, codes(diags.Warnings))
}

func TestQualifyPath(t *testing.T) {
	tests := []struct {
		name   string
		clip   string
		active string
		want   string
		ok     bool
	}{
		{"rooted", `root.objects["Cube"].location[0]`, "", `root.objects["Cube"].location[0]`, true},
		{"relative", "location[2]", "Cube", `root.objects["Cube"].location[2]`, true},
		{"trims", "  scale[0]\n", "Box", `root.objects["Box"].scale[0]`, true},
		{"prefix lookalike", "rooted.value", "Cube", `root.objects["Cube"].rooted.value`, true},
		{"no active object", "location[2]", "", "", false},
		{"empty clip", "  ", "Cube", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := QualifyPath(tt.clip, "root", tt.active)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
