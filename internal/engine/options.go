package engine

import (
	"go.uber.org/zap"

	"midi-animator/internal/event"
	"midi-animator/internal/path"
)

// DefaultAccumulateGain scales the centered range output of ACCUMULATE
// targets without an expression.
const DefaultAccumulateGain = 0.1

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithFrameSource sets where the time and frame variables come from. The
// default is a StepClock at DefaultFPS advanced once per tick.
func WithFrameSource(fs FrameSource) Option {
	return func(e *Engine) {
		if fs != nil {
			e.frames = fs
		}
	}
}

// WithRedraw sets a hook called once at the end of every tick.
func WithRedraw(fn func()) Option {
	return func(e *Engine) {
		e.redraw = fn
	}
}

// WithAccumulateGain overrides DefaultAccumulateGain.
func WithAccumulateGain(gain float64) Option {
	return func(e *Engine) {
		e.gain = gain
	}
}

// WithPrefix sets the sentinel root segment of target paths.
func WithPrefix(prefix string) Option {
	return func(e *Engine) {
		e.resolver = path.NewResolver(prefix)
	}
}

// WithQueueSize sets how many events may wait between two ticks.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		e.queue = event.NewQueue[event.Event](n)
	}
}

// WithMonitor shares a monitor with the caller, e.g. for auto-assign.
func WithMonitor(m *event.Monitor) Option {
	return func(e *Engine) {
		if m != nil {
			e.monitor = m
		}
	}
}
