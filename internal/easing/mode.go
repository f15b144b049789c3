// Package easing reshapes normalized progress into curved progress.
package easing

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Mode -output=mode_string.go

// Mode selects an easing curve.
type Mode int

const (
	Linear Mode = iota
	QuadIn
	QuadOut
	QuadInOut
	CubicOut
	ExpoOut
	BackOut
	ElasticOut
	BounceOut

	modeCount = int(iota)
)

// ErrUnknownMode is returned when parsing a curve name that does not exist.
var ErrUnknownMode = errors.New("unknown easing mode")

// names are the persisted curve identifiers, indexed by Mode.
var names = [modeCount]string{
	Linear:     "LINEAR",
	QuadIn:     "QUAD_IN",
	QuadOut:    "QUAD_OUT",
	QuadInOut:  "QUAD_INOUT",
	CubicOut:   "CUBIC_OUT",
	ExpoOut:    "EXPO_OUT",
	BackOut:    "BACK_OUT",
	ElasticOut: "ELASTIC_OUT",
	BounceOut:  "BOUNCE_OUT",
}

// Modes returns every defined mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}

	return out
}

func (m Mode) IsValid() bool {
	return m >= 0 && int(m) < modeCount
}

// Name returns the persisted identifier of m. Invalid modes report LINEAR,
// matching how they ease.
func (m Mode) Name() string {
	if !m.IsValid() {
		return names[Linear]
	}

	return names[m]
}

// ParseMode parses a persisted identifier, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}

	return Linear, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.Name()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
