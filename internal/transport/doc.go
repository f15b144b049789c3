// Package transport delivers controller events from an input device.
//
// A Driver lists input names and opens one of them, calling back with every
// normalized event from its own goroutine. MIDI wraps a gomidi driver (rtmidi
// in the CLI); Replay plays a recorded event file and is used for tests and
// headless runs.
package transport
