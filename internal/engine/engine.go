package engine

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"midi-animator/internal/easing"
	"midi-animator/internal/event"
	"midi-animator/internal/expr"
	"midi-animator/internal/graph"
	"midi-animator/internal/mapping"
	"midi-animator/internal/path"
)

// Stats counts engine activity since creation.
type Stats struct {
	Ticks    uint64
	Events   uint64
	Applies  uint64
	Writes   uint64
	Failures uint64
}

// Engine animates one mapping collection against one property graph. Push is
// safe for concurrent use; every other method must be called from the tick
// goroutine.
type Engine struct {
	mappings *mapping.Collection
	acc      graph.Accessor
	resolver *path.Resolver
	queue    *event.Queue[event.Event]
	monitor  *event.Monitor
	frames   FrameSource
	redraw   func()
	gain     float64
	log      *zap.Logger

	states   map[int]*State
	programs map[string]*compiled
	failing  map[string]string
	stats    Stats
}

type compiled struct {
	prog *expr.Program
	err  error
}

// New creates an engine for mappings writing through acc.
func New(mappings *mapping.Collection, acc graph.Accessor, opts ...Option) *Engine {
	if mappings == nil {
		mappings = mapping.NewCollection()
	}

	e := &Engine{
		mappings: mappings,
		acc:      acc,
		resolver: path.NewResolver(""),
		queue:    event.NewQueue[event.Event](event.DefaultQueueSize),
		monitor:  &event.Monitor{},
		frames:   NewStepClock(DefaultFPS),
		gain:     DefaultAccumulateGain,
		log:      zap.NewNop(),
		states:   make(map[int]*State),
		programs: make(map[string]*compiled),
		failing:  make(map[string]string),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Push enqueues a controller event for the next tick. It never blocks and
// reports false when the event was dropped.
func (e *Engine) Push(ev event.Event) bool {
	if !e.queue.Push(ev) {
		e.log.Warn("event queue full, dropping event",
			zap.Stringer("event", ev),
			zap.Uint64("dropped", e.queue.Dropped()))

		return false
	}

	return true
}

// Mappings returns the animated collection.
func (e *Engine) Mappings() *mapping.Collection {
	return e.mappings
}

// Monitor returns the monitor updated with every routed event.
func (e *Engine) Monitor() *event.Monitor {
	return e.monitor
}

// Resolver returns the path resolver used for writes.
func (e *Engine) Resolver() *path.Resolver {
	return e.resolver
}

// Stats returns activity counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Dropped returns the number of events lost to a full queue.
func (e *Engine) Dropped() uint64 {
	return e.queue.Dropped()
}

// State returns a copy of the smoothing state of mapping i.
func (e *Engine) State(i int) (State, bool) {
	s, ok := e.states[i]
	if !ok || i >= e.mappings.Len() {
		return State{}, false
	}

	return *s, true
}

// RemoveMapping removes mapping i from the collection and shifts the states of
// later mappings down so they stay attached to their mappings.
func (e *Engine) RemoveMapping(i int) error {
	if err := e.mappings.Remove(i); err != nil {
		return err
	}

	delete(e.states, i)

	for _, k := range slices.Sorted(maps.Keys(e.states)) {
		if k > i {
			e.states[k-1] = e.states[k]
			delete(e.states, k)
		}
	}

	return nil
}

// Reset discards pending events and all animation state. Mappings are seeded
// again on the next tick.
func (e *Engine) Reset() {
	e.queue.Reset()
	clear(e.states)
	clear(e.failing)
}

// Tick runs one animation frame.
func (e *Engine) Tick() {
	e.stats.Ticks++

	for _, ev := range e.queue.Drain() {
		e.route(ev)
	}

	e.prune()

	vars := map[string]float64{
		expr.VarTime:  Seconds(e.frames),
		expr.VarFrame: float64(e.frames.Frame()),
	}

	for i := range e.mappings.Mappings {
		e.animate(i, &e.mappings.Mappings[i], vars)
	}

	if s, ok := e.frames.(stepper); ok {
		s.Step()
	}

	if e.redraw != nil {
		e.redraw()
	}
}

// route sets the target value of every mapping that accepts ev.
func (e *Engine) route(ev event.Event) {
	e.stats.Events++
	e.monitor.Observe(ev)

	for i := range e.mappings.Mappings {
		m := &e.mappings.Mappings[i]
		if v, ok := Accept(m, ev); ok {
			m.TargetValue = v
		}
	}
}

// Accept reports whether m reacts to ev and the target value it commands.
// Key-mode mappings take notes, knob mappings take control changes.
func Accept(m *mapping.Mapping, ev event.Event) (float64, bool) {
	if m.InputID != ev.ID {
		return 0, false
	}

	switch {
	case m.KeyMode && ev.Kind == event.NoteEvent:
		if ev.Value > 0 {
			return 1, true
		}

		return 0, true
	case !m.KeyMode && ev.Kind == event.ContinuousControl:
		return float64(ev.Value) / event.MaxValue, true
	default:
		return 0, false
	}
}

// prune drops states of mappings that no longer exist.
func (e *Engine) prune() {
	n := e.mappings.Len()
	for k := range e.states {
		if k >= n || k < 0 {
			delete(e.states, k)
		}
	}
}

func (e *Engine) animate(i int, m *mapping.Mapping, vars map[string]float64) {
	s, ok := e.states[i]
	if !ok {
		s = &State{}
		s.Seed(m.TargetValue)
		e.states[i] = s
	} else {
		s.Advance(m.TargetValue, m.Speed)
	}

	if !s.Moved() && !m.Continuous(e.usesClock) {
		return
	}

	s.markApplied()
	e.stats.Applies++

	x := easing.Ease(s.Current, m.Curve)
	vars[expr.VarX] = x

	label := mapping.Label(i, m)
	for j := range m.Targets {
		e.applyTarget(label, m, &m.Targets[j], x, vars)
	}
}

// program returns the compiled form of src, compiling it once.
func (e *Engine) program(src string) (*expr.Program, error) {
	c, ok := e.programs[src]
	if !ok {
		prog, err := expr.Compile(src)
		c = &compiled{prog: prog, err: err}
		e.programs[src] = c
	}

	return c.prog, c.err
}

func (e *Engine) usesClock(src string) bool {
	prog, err := e.program(src)

	return err == nil && prog.UsesClock()
}

// fail records a per-target failure, logging it once until the path recovers.
func (e *Engine) fail(label, p string, err error) {
	e.stats.Failures++

	msg := err.Error()
	if e.failing[p] == msg {
		return
	}

	e.failing[p] = msg
	e.log.Debug("target write skipped",
		zap.String("mapping", label),
		zap.String("path", p),
		zap.Error(err))
}

func (e *Engine) recovered(p string) {
	delete(e.failing, p)
}

func (e *Engine) String() string {
	return fmt.Sprintf("engine(%d mappings, %d states)", e.mappings.Len(), len(e.states))
}
