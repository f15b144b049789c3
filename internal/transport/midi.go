package transport

import (
	"fmt"
	"io"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"

	"midi-animator/internal/event"
)

// MIDI is a Driver over a gomidi driver.
type MIDI struct {
	drv drivers.Driver
	log *zap.Logger
}

// NewMIDI wraps drv. A nil log discards output.
func NewMIDI(drv drivers.Driver, log *zap.Logger) *MIDI {
	if log == nil {
		log = zap.NewNop()
	}

	return &MIDI{drv: drv, log: log}
}

func (m *MIDI) Inputs() ([]string, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}

	return names, nil
}

func (m *MIDI) Open(name string, onEvent func(event.Event)) (io.Closer, error) {
	in, err := m.port(name)
	if err != nil {
		return nil, err
	}

	if !in.IsOpen() {
		if err := in.Open(); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
	}

	log := m.log.With(zap.String("device", name))

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if ev, ok := event.FromMessage(msg); ok {
			onEvent(ev)
		}
	}, midi.HandleError(func(err error) {
		log.Warn("midi listener error", zap.Error(err))
	}))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", name, err)
	}

	log.Info("midi input connected")

	return &midiConn{in: in, stop: stop, log: log}, nil
}

func (m *MIDI) port(name string) (drivers.In, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, err
	}

	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoPort, name)
}

type midiConn struct {
	once sync.Once
	in   drivers.In
	stop func()
	log  *zap.Logger
	err  error
}

func (c *midiConn) Close() error {
	c.once.Do(func() {
		c.stop()

		if err := c.in.Close(); err != nil {
			c.err = fmt.Errorf("failed to close %s: %w", c.in.String(), err)
		}

		c.log.Info("midi input closed")
	})

	return c.err
}

