package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midi-animator/internal/mapping"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := dispatch(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))

	return p
}

func TestDispatch_Usage(t *testing.T) {
	code, _, stderr := run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "convert")

	code, _, stderr = run(t, "animate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "animate"`)

	code, _, _ = run(t, "eval")
	assert.Equal(t, 2, code)
}

func TestEval(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"2 + 3 * 4"}, "14\n"},
		{[]string{"-x", "0.5", "x * 2"}, "1\n"},
		{[]string{"-frame", "30", "-fps", "30", "time + frame"}, "31\n"},
		{[]string{"-tree", "1 - 2 - 3"}, "((1 - 2) - 3)\n-4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			code, stdout, _ := run(t, append([]string{"eval"}, tt.args...)...)
			assert.Equal(t, 0, code)
			assert.Equal(t, tt.want, stdout)
		})
	}

	code, _, stderr := run(t, "eval", "sine(x)")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown function "sine"`)

	code, _, stderr = run(t, "eval", "1 / 0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "division by zero")
}

const mappingsJSON = `[
	{"name": "Lid", "cc": 21, "speed": 1, "targets": [
		{"path": "root.objects[\"Box\"].rotation[0]", "max": 10}
	]},
	{"name": "Wave", "cc": 22, "targets": [
		{"path": "root.objects[\"Box\"].rotation[1]", "expr": "sine(time)"}
	]}
]`

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "rig.json", mappingsJSON)

	code, stdout, _ := run(t, "check", "-dump", p)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "warning: [#1 \"Wave\"]")
	assert.Contains(t, stdout, "did you mean sin?")
	assert.Contains(t, stdout, "2 mappings OK")
	assert.Contains(t, stdout, "Name: (string) (len=3) \"Lid\"")

	bad := writeFile(t, dir, "bad.json", `[{"cc": 300}]`)

	code, stdout, stderr := run(t, "check", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "error: [#0 \"Import\"]: [input_out_of_range]")
	assert.Contains(t, stderr, "Could not import mappings from")
	assert.Contains(t, stderr, "error (config_parse)")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "rig.json", mappingsJSON)
	out := filepath.Join(dir, "rig.yaml")

	code, stdout, _ := run(t, "convert", in, out)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "wrote 2 mappings")

	fromJSON, _, err := mapping.LoadFile(in, "")
	require.NoError(t, err)

	fromYAML, _, err := mapping.LoadFile(out, "")
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	code, _, _ = run(t, "convert", in)
	assert.Equal(t, 2, code)
}

type fakeIn struct {
	drivers.In
	name string
}

func (f fakeIn) String() string { return f.name }

type fakeDriver struct {
	drivers.Driver
	names []string
}

func (d fakeDriver) Ins() ([]drivers.In, error) {
	out := make([]drivers.In, len(d.names))
	for i, n := range d.names {
		out[i] = fakeIn{name: n}
	}

	return out, nil
}

func (d fakeDriver) Close() error { return nil }

func withDriver(t *testing.T, fn func() (drivers.Driver, error)) {
	t.Helper()

	old := newMIDIDriver
	newMIDIDriver = fn

	t.Cleanup(func() { newMIDIDriver = old })
}

func TestPorts(t *testing.T) {
	withDriver(t, func() (drivers.Driver, error) {
		return fakeDriver{names: []string{"Midi Through", "XL"}}, nil
	})

	code, stdout, _ := run(t, "ports")
	assert.Equal(t, 0, code)
	assert.Equal(t, "0: Midi Through\n1: XL\n", stdout)

	withDriver(t, func() (drivers.Driver, error) { return fakeDriver{}, nil })

	_, stdout, _ = run(t, "ports")
	assert.Equal(t, "no MIDI inputs\n", stdout)

	withDriver(t, func() (drivers.Driver, error) { return nil, errors.New("no alsa") })

	code, _, stderr := run(t, "ports")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Could not open the system MIDI driver")
	assert.Contains(t, stderr, "error (transport)")
}

func TestRun_Replay(t *testing.T) {
	dir := t.TempDir()

	rig := writeFile(t, dir, "rig.json", mappingsJSON)
	scene := writeFile(t, dir, "scene.json", `{"objects": {"Box": {"rotation": [0.5, 0.5, 0.5]}}}`)
	replay := writeFile(t, dir, "knob.yaml", `
- {type: control_change, number: 21, value: 0}
- {type: control_change, number: 21, value: 127, wait_ms: 100}
`)
	cfg := writeFile(t, dir, "config.yaml", "tick: 2ms\nreplayInterval: 1ms\nlog:\n  level: error\n")
	saved := filepath.Join(dir, "out.json")

	code, stdout, stderr := run(t, "run",
		"-config", cfg, "-mappings", rig, "-scene", scene, "-replay", replay,
		"-save", saved, "-linger", "200ms")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "animating 2 mappings from replay:knob.yaml")
	assert.Contains(t, stdout, "2 events")
	assert.Contains(t, stdout, "saved scene to "+saved)

	data, err := os.ReadFile(saved)
	require.NoError(t, err)

	var doc struct {
		Objects map[string]struct {
			Rotation []float64 `json:"rotation"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.InDelta(t, 10.0, doc.Objects["Box"].Rotation[0], 1e-9)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := run(t, "run", "-replay", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Could not load replay file")

	code, _, stderr = run(t, "run", "-config", writeFile(t, dir, "c.yaml", "driver: osc\n"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown driver "osc"`)

	bad := writeFile(t, dir, "bad.json", `[{"cc": 300, "targets": [{"path": "root.x"}]}]`)
	code, _, stderr = run(t, "run", "-mappings", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config_parse")
}
