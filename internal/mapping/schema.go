package mapping

import (
	"math"
	"strings"

	"midi-animator/internal/common"
	"midi-animator/internal/easing"
)

// Persisted defaults.
const (
	DefaultName       = "Import"
	DefaultSpeed      = 0.1
	DefaultMin        = 0.0
	DefaultMax        = 1.0
	NewMappingName    = "Mapping"
	MinSpeed          = 0.01
	MaxSpeed          = 1.0
	MaxInputID        = 127
	copySuffix        = " Copy"
)

// Mapping binds one controller input to a list of property targets.
type Mapping struct {
	// Name is a display label.
	Name string `json:"name" yaml:"name"`
	// InputID is the control or note number, 0..127.
	InputID int `json:"cc" yaml:"cc"`
	// KeyMode makes the mapping react to notes instead of control changes.
	KeyMode bool `json:"note" yaml:"note"`
	// Absolute writes x * 127 instead of scaling between Min and Max.
	Absolute bool `json:"abs" yaml:"abs"`
	// Speed is the smoothing factor in (0, 1]; 1 jumps straight to the target.
	Speed float64 `json:"speed" yaml:"speed"`
	// Curve shapes the smoothed value before it reaches the targets.
	Curve easing.Mode `json:"curve" yaml:"curve"`
	// Targets are written in order on every apply.
	Targets []Target `json:"targets" yaml:"targets"`

	// TargetValue is the last commanded goal in [0, 1]. It is runtime state
	// and is never persisted.
	TargetValue float64 `json:"-" yaml:"-"`
}

// Target is one property driven by a mapping.
type Target struct {
	Path string    `json:"path" yaml:"path"`
	Min  float64   `json:"min" yaml:"min"`
	Max  float64   `json:"max" yaml:"max"`
	Mode DriveMode `json:"mode" yaml:"mode"`
	Expr string    `json:"expr" yaml:"expr"`

	// LastWritten is the most recent output, for display only.
	LastWritten float64 `json:"-" yaml:"-"`
}

// DriveMode selects how a target combines the output with the current value.
type DriveMode string

const (
	// DriveSet overwrites the property with the output.
	DriveSet DriveMode = "SET"
	// DriveAccumulate adds a delta to the property on every tick.
	DriveAccumulate DriveMode = "ACCUMULATE"
)

// IsValid returns true if the mode is a recognized value.
func (d DriveMode) IsValid() bool {
	return d == DriveSet || d == DriveAccumulate
}

// UnmarshalText accepts drive modes case-insensitively. Unknown names are kept
// as written and reported by Validate.
func (d *DriveMode) UnmarshalText(text []byte) error {
	*d = DriveMode(strings.ToUpper(strings.TrimSpace(string(text))))

	return nil
}

// NewMapping returns a mapping with every field at its default.
func NewMapping(name string) Mapping {
	return Mapping{
		Name:  name,
		Speed: DefaultSpeed,
		Curve: easing.Linear,
	}
}

// NewTarget returns a target with every field at its default.
func NewTarget(path string) Target {
	return Target{
		Path: path,
		Min:  DefaultMin,
		Max:  DefaultMax,
		Mode: DriveSet,
	}
}

// Clone returns a deep copy of m.
func (m Mapping) Clone() Mapping {
	out := m
	out.Targets = append([]Target(nil), m.Targets...)

	return out
}

// Continuous reports whether the mapping must be re-applied every tick
// regardless of input changes. usesClock reports whether a target expression
// reads the clock; the engine answers it from its compiled programs.
func (m *Mapping) Continuous(usesClock func(expr string) bool) bool {
	for _, t := range m.Targets {
		if t.Mode == DriveAccumulate {
			return true
		}

		if t.Expr != "" && usesClock != nil && usesClock(t.Expr) {
			return true
		}
	}

	return false
}

// Normalize brings loaded values into their legal ranges.
func (m *Mapping) Normalize() {
	if math.IsNaN(m.Speed) {
		m.Speed = DefaultSpeed
	}

	m.Speed = common.Clamp(m.Speed, MinSpeed, MaxSpeed)
	m.InputID = common.Clamp(m.InputID, 0, MaxInputID)

	if math.IsNaN(m.TargetValue) {
		m.TargetValue = 0
	}

	m.TargetValue = common.Clamp(m.TargetValue, 0, 1)
}
