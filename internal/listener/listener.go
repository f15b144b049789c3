// Package listener connects an input device to an animation engine and drives
// the engine from a scheduler.
package listener

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"midi-animator/internal/engine"
	"midi-animator/internal/event"
	"midi-animator/internal/graph"
	"midi-animator/internal/mapping"
	"midi-animator/internal/schedule"
	"midi-animator/internal/transport"
)

// DefaultInterval is the tick period, about 60 ticks per second.
const DefaultInterval = time.Second / 60

// Config wires a Listener.
type Config struct {
	Driver    transport.Driver
	Scheduler *schedule.Scheduler
	Mappings  *mapping.Collection
	Graph     graph.Accessor
	// Device selects the input. Empty selects the first one.
	Device string
	// Interval is the tick period. Zero means DefaultInterval.
	Interval time.Duration
	// Engine options applied to every engine the listener creates.
	Engine []engine.Option
	Logger *zap.Logger
}

// Listener owns the engine and the input connection. A new engine is created
// on every Start and torn down on Stop.
type Listener struct {
	cfg Config
	log *zap.Logger

	mu     sync.Mutex
	eng    *engine.Engine
	conn   io.Closer
	device string
	handle schedule.Handle
}

// New creates a disconnected listener.
func New(cfg Config) *Listener {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.Mappings == nil {
		cfg.Mappings = mapping.NewCollection()
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Listener{cfg: cfg, log: log}
}

// Start connects the configured input and registers the tick callback.
// Starting a connected listener does nothing. Errors wrap
// transport.ErrTransport.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.eng != nil {
		return nil
	}

	opts := append([]engine.Option{engine.WithLogger(l.log)}, l.cfg.Engine...)
	eng := engine.New(l.cfg.Mappings, l.cfg.Graph, opts...)

	conn, name, err := transport.Connect(l.cfg.Driver, l.cfg.Device, func(ev event.Event) {
		eng.Push(ev)
	})
	if err != nil {
		l.log.Error("connect failed", zap.String("device", l.cfg.Device), zap.Error(err))
		return err
	}

	l.eng = eng
	l.conn = conn
	l.device = name
	l.handle = l.cfg.Scheduler.Register(func() time.Duration {
		l.tick(eng)
		return l.cfg.Interval
	}, 0)

	l.log.Info("listener started",
		zap.String("device", name),
		zap.Int("mappings", l.cfg.Mappings.Len()),
		zap.Duration("interval", l.cfg.Interval))

	return nil
}

// tick runs eng unless it was replaced or stopped since the callback fired.
func (l *Listener) tick(eng *engine.Engine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.eng == eng {
		eng.Tick()
	}
}

// Stop closes the input, unregisters the tick callback and discards queued
// events. Stopping a disconnected listener does nothing.
func (l *Listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.eng == nil {
		return nil
	}

	l.cfg.Scheduler.Unregister(l.handle)

	err := l.conn.Close()

	l.eng.Reset()
	stats := l.eng.Stats()

	l.log.Info("listener stopped",
		zap.String("device", l.device),
		zap.Uint64("ticks", stats.Ticks),
		zap.Uint64("events", stats.Events),
		zap.Uint64("dropped", l.eng.Dropped()))

	device := l.device
	l.eng, l.conn, l.device, l.handle = nil, nil, "", 0

	if err != nil {
		return transport.Wrap(err, "close input", "Could not cleanly close MIDI input "+device)
	}

	return nil
}

// Connected reports whether an input is open.
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.eng != nil
}

// Device returns the name of the connected input.
func (l *Listener) Device() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.device
}

// Engine returns the running engine, or nil when disconnected.
func (l *Listener) Engine() *engine.Engine {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.eng
}

// Done is closed when a finite input such as a replay has delivered all of
// its events. It is nil for live inputs and when disconnected.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.conn.(transport.Finisher); ok {
		return f.Done()
	}

	return nil
}
