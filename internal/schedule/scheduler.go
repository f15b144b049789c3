package schedule

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handle identifies a registered callback. The zero Handle is never issued.
type Handle uint64

// Callback runs when due and returns the delay until its next run. A result
// of zero or less unregisters it.
type Callback func() time.Duration

// Scheduler runs registered callbacks at their due times. Register,
// Unregister and IsRegistered are safe for concurrent use, including from
// inside a callback.
type Scheduler struct {
	mu      sync.Mutex
	entries map[Handle]*entry
	due     queue
	last    Handle
	seq     uint64
	wake    chan struct{}
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used to report panicking callbacks.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		entries: make(map[Handle]*entry),
		wake:    make(chan struct{}, 1),
		now:     time.Now,
		log:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register schedules cb to run first from now. A non-positive first runs it
// on the next pass.
func (s *Scheduler) Register(cb Callback, first time.Duration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	s.seq++

	e := &entry{handle: s.last, cb: cb, at: s.now().Add(max(first, 0)), seq: s.seq, index: -1}
	s.entries[e.handle] = e
	heap.Push(&s.due, e)
	s.notify()

	return e.handle
}

// Unregister removes h. It reports whether h was registered. A callback that
// is running when it is unregistered finishes but is not rescheduled.
func (s *Scheduler) Unregister(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h]
	if !ok {
		return false
	}

	delete(s.entries, h)

	if e.index >= 0 {
		heap.Remove(&s.due, e.index)
	}

	s.notify()

	return true
}

// IsRegistered reports whether h is still scheduled.
func (s *Scheduler) IsRegistered(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[h]

	return ok
}

// Len returns the number of registered callbacks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// RunDue runs every callback due at or before now and returns how many ran.
// Each callback runs at most once per call.
func (s *Scheduler) RunDue(now time.Time) int {
	ran := 0

	for {
		e := s.popDue(now)
		if e == nil {
			return ran
		}

		next := s.call(e)
		ran++

		s.reschedule(e, now, next)
	}
}

func (s *Scheduler) popDue(now time.Time) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.due.Len() == 0 || s.due[0].at.After(now) {
		return nil
	}

	return heap.Pop(&s.due).(*entry)
}

func (s *Scheduler) reschedule(e *entry, now time.Time, next time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.handle]; !ok {
		return
	}

	if next <= 0 {
		delete(s.entries, e.handle)
		return
	}

	s.seq++
	e.at = now.Add(next)
	e.seq = s.seq
	heap.Push(&s.due, e)
}

// call runs the callback of e. A panic unregisters it.
func (s *Scheduler) call(e *entry) (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled callback panicked",
				zap.Uint64("handle", uint64(e.handle)),
				zap.Error(fmt.Errorf("panic: %v", r)))

			next = 0
		}
	}()

	return e.cb()
}

// Run runs callbacks as they fall due until ctx is done, and returns the
// context's error.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.RunDue(s.now())

		wait, ok := s.untilNext()

		var fire <-chan time.Time
		if ok {
			timer.Reset(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fire:
		case <-s.wake:
			timer.Stop()
		}
	}
}

func (s *Scheduler) untilNext() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.due.Len() == 0 {
		return 0, false
	}

	return max(s.due[0].at.Sub(s.now()), 0), true
}

// notify wakes Run so it picks up a changed head of the queue. Callers hold mu.
func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
