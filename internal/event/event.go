// Package event normalizes controller input into (kind, id, value) events and
// hands them from transport goroutines to the tick loop.
package event

import (
	"fmt"

	"midi-animator/internal/common"
)

// MaxValue is the largest id or value a controller event carries.
const MaxValue = 127

// Kind distinguishes continuous controls from note triggers.
type Kind int

const (
	KindNone Kind = iota
	ContinuousControl
	NoteEvent
)

// String returns the short label used in mapping names and displays.
func (k Kind) String() string {
	switch k {
	case ContinuousControl:
		return "CC"
	case NoteEvent:
		return "Note"
	default:
		return common.UnknownStr
	}
}

// Event is a normalized controller event.
type Event struct {
	Kind  Kind
	ID    int
	Value int
}

func (e Event) String() string {
	return fmt.Sprintf("%s %d = %d", e.Kind, e.ID, e.Value)
}

// Raw event type names as delivered by transports.
const (
	TypeControlChange = "control_change"
	TypeNoteOn        = "note_on"
	TypeNoteOff       = "note_off"
)

// Raw is a decoded but not yet normalized transport event.
type Raw struct {
	Type   string `json:"type" yaml:"type"`
	Number int    `json:"number" yaml:"number"`
	Value  int    `json:"value" yaml:"value"`
}

// Normalize converts r into an Event. Values are clamped to 0..127. Ids
// outside 0..127 and unknown types are rejected, since a clamped id would
// drive a different controller.
func Normalize(r Raw) (Event, bool) {
	if !common.InRange(0, r.Number, MaxValue) {
		return Event{}, false
	}

	id := r.Number
	v := common.Clamp(r.Value, 0, MaxValue)

	switch r.Type {
	case TypeControlChange:
		return Event{Kind: ContinuousControl, ID: id, Value: v}, true
	case TypeNoteOn:
		return Event{Kind: NoteEvent, ID: id, Value: v}, true
	case TypeNoteOff:
		return Event{Kind: NoteEvent, ID: id, Value: 0}, true
	default:
		return Event{}, false
	}
}
