package event

import (
	"gitlab.com/gomidi/midi/v2"
)

// FromMessage normalizes a gomidi channel message. A note-on with velocity
// zero is a note-off. Other message types are rejected.
func FromMessage(msg midi.Message) (Event, bool) {
	var ch, key, vel, cc, val uint8

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Normalize(Raw{Type: TypeNoteOn, Number: int(key), Value: int(vel)})
	case msg.GetNoteEnd(&ch, &key):
		return Normalize(Raw{Type: TypeNoteOff, Number: int(key)})
	case msg.GetControlChange(&ch, &cc, &val):
		return Normalize(Raw{Type: TypeControlChange, Number: int(cc), Value: int(val)})
	default:
		return Event{}, false
	}
}

// Message encodes e back into a gomidi message on channel 0.
func Message(e Event) (midi.Message, bool) {
	switch e.Kind {
	case ContinuousControl:
		return midi.ControlChange(0, uint8(e.ID), uint8(e.Value)), true
	case NoteEvent:
		if e.Value == 0 {
			return midi.NoteOff(0, uint8(e.ID)), true
		}

		return midi.NoteOn(0, uint8(e.ID), uint8(e.Value)), true
	default:
		return nil, false
	}
}
