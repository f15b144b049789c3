package easing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEase_Boundaries(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			assert.InDelta(t, 0.0, Ease(0, m), 1e-9)
			assert.InDelta(t, 1.0, Ease(1, m), 1e-9)
		})
	}
}

func TestEase_ClampsInput(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, Ease(0, m), Ease(-0.5, m))
			assert.Equal(t, Ease(1, m), Ease(3, m))
		})
	}
}

func TestEase_ClosedForms(t *testing.T) {
	tests := []struct {
		mode Mode
		t    float64
		want float64
	}{
		{Linear, 0.3, 0.3},
		{QuadIn, 0.5, 0.25},
		{QuadOut, 0.5, 0.75},
		{QuadInOut, 0.25, 0.125},
		{QuadInOut, 0.75, 0.875},
		{CubicOut, 0.5, 0.875},
		{ExpoOut, 0.5, 1 - math.Pow(2, -5)},
		{BackOut, 0.5, 1 + 2.70158*math.Pow(-0.5, 3) + 1.70158*0.25},
		{ElasticOut, 0.5, math.Pow(2, -5)*math.Sin((5-0.75)*(2*math.Pi/3)) + 1},
		{BounceOut, 0.2, 7.5625 * 0.04},
		{BounceOut, 0.5, 7.5625*math.Pow(0.5-1.5/2.75, 2) + 0.75},
		{BounceOut, 0.8, 7.5625*math.Pow(0.8-2.25/2.75, 2) + 0.9375},
		{BounceOut, 0.95, 7.5625*math.Pow(0.95-2.625/2.75, 2) + 0.984375},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, Ease(tt.t, tt.mode), 1e-12)
		})
	}
}

func TestEase_BackOutOvershoots(t *testing.T) {
	assert.Greater(t, Ease(0.8, BackOut), 1.0)
}

func TestEase_UnknownModeIsLinear(t *testing.T) {
	assert.Equal(t, 0.42, Ease(0.42, Mode(99)))
	assert.Equal(t, 0.42, Ease(0.42, Mode(-1)))
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.Name())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode(" quad_inout ")
	require.NoError(t, err)
	assert.Equal(t, QuadInOut, got)

	_, err = ParseMode("SMOOTHSTEP")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestMode_Names(t *testing.T) {
	assert.Equal(t, "BOUNCE_OUT", BounceOut.Name())
	assert.Equal(t, "BounceOut", BounceOut.String())
	assert.Equal(t, "LINEAR", Mode(42).Name())
	assert.Equal(t, "Mode(42)", Mode(42).String())
	assert.False(t, Mode(42).IsValid())
}

func TestMode_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Mode{"curve": ElasticOut})
	require.NoError(t, err)
	assert.JSONEq(t, `{"curve":"ELASTIC_OUT"}`, string(data))

	var out map[string]Mode
	require.NoError(t, json.Unmarshal([]byte(`{"curve":"CUBIC_OUT"}`), &out))
	assert.Equal(t, CubicOut, out["curve"])

	require.Error(t, json.Unmarshal([]byte(`{"curve":"NOPE"}`), &out))
}
