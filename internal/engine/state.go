package engine

import (
	"math"

	"midi-animator/internal/common"
	"midi-animator/internal/mapping"
)

const (
	// SnapEpsilon is the distance under which the current value snaps to the target.
	SnapEpsilon = 0.001
	// WriteEpsilon is the movement below which a non-continuous mapping is not re-applied.
	WriteEpsilon = 1e-5
	// StepScale converts a mapping speed into a per-tick step at 60 Hz.
	StepScale = 0.2
)

// Phase is the smoothing state of one mapping.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSettling
	PhaseAtRest
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseSettling:
		return "settling"
	case PhaseAtRest:
		return "at rest"
	default:
		return common.UnknownStr
	}
}

// State is the per-mapping smoothing state. Current is owned by the engine
// and only changes inside Advance.
type State struct {
	Current float64
	Target  float64
	Phase   Phase

	// lastApplied is Current as of the last write to the graph.
	lastApplied float64
}

// Step returns the per-tick step for speed. Speeds of 1 or more are instant;
// speeds below the mapping minimum use the minimum so that a state always
// converges.
func Step(speed float64) float64 {
	if math.IsNaN(speed) || speed < mapping.MinSpeed {
		speed = mapping.MinSpeed
	}

	if speed < 1 {
		return speed * StepScale
	}

	return 1
}

// Seed initializes an uninitialized state at target without moving.
func (s *State) Seed(target float64) {
	target = common.Clamp(target, 0, 1)
	s.Current = target
	s.Target = target
	s.lastApplied = target
	s.Phase = PhaseSettling
}

// Advance moves Current one step toward target without overshooting.
func (s *State) Advance(target, speed float64) {
	if s.Phase == PhaseUninitialized {
		s.Seed(target)

		return
	}

	s.Target = common.Clamp(target, 0, 1)

	diff := s.Target - s.Current
	if math.Abs(diff) < SnapEpsilon {
		s.Current = s.Target
		s.Phase = PhaseAtRest

		return
	}

	s.Phase = PhaseSettling

	step := Step(speed)
	if step >= math.Abs(diff) {
		s.Current = s.Target
	} else {
		s.Current += math.Copysign(step, diff)
	}
}

// Moved reports whether Current differs from the last applied value by more
// than WriteEpsilon.
func (s *State) Moved() bool {
	return math.Abs(s.Current-s.lastApplied) > WriteEpsilon
}

func (s *State) markApplied() {
	s.lastApplied = s.Current
}
