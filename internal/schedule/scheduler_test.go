package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newFake() (*Scheduler, *fakeClock) {
	c := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(WithClock(c.now)), c
}

func TestRegister_RunsWhenDue(t *testing.T) {
	s, c := newFake()

	calls := 0
	h := s.Register(func() time.Duration {
		calls++
		return 10 * time.Millisecond
	}, 5*time.Millisecond)

	assert.NotZero(t, h)
	assert.True(t, s.IsRegistered(h))

	assert.Equal(t, 0, s.RunDue(c.advance(4*time.Millisecond)))
	assert.Equal(t, 1, s.RunDue(c.advance(time.Millisecond)))
	assert.Equal(t, 0, s.RunDue(c.advance(9*time.Millisecond)))
	assert.Equal(t, 1, s.RunDue(c.advance(time.Millisecond)))
	assert.Equal(t, 2, calls)
}

func TestRunDue_OncePerPass(t *testing.T) {
	s, c := newFake()

	calls := 0
	s.Register(func() time.Duration {
		calls++
		return time.Millisecond
	}, 0)

	assert.Equal(t, 1, s.RunDue(c.advance(time.Second)))
	assert.Equal(t, 1, calls)
}

func TestRunDue_Order(t *testing.T) {
	s, c := newFake()

	var order []string
	add := func(name string, first time.Duration) {
		s.Register(func() time.Duration {
			order = append(order, name)
			return 0
		}, first)
	}

	add("late", 3*time.Millisecond)
	add("first", time.Millisecond)
	add("tie-a", 2*time.Millisecond)
	add("tie-b", 2*time.Millisecond)

	assert.Equal(t, 4, s.RunDue(c.advance(5*time.Millisecond)))
	assert.Equal(t, []string{"first", "tie-a", "tie-b", "late"}, order)
	assert.Zero(t, s.Len())
}

func TestNonPositiveIntervalUnregisters(t *testing.T) {
	for _, next := range []time.Duration{0, -time.Second} {
		s, c := newFake()

		h := s.Register(func() time.Duration { return next }, 0)
		s.RunDue(c.now())

		assert.False(t, s.IsRegistered(h))
		assert.Equal(t, 0, s.RunDue(c.advance(time.Hour)))
	}
}

func TestUnregister(t *testing.T) {
	s, c := newFake()

	calls := 0
	h := s.Register(func() time.Duration {
		calls++
		return time.Millisecond
	}, 0)
	other := s.Register(func() time.Duration { return time.Millisecond }, 0)

	assert.True(t, s.Unregister(h))
	assert.False(t, s.Unregister(h))
	assert.False(t, s.IsRegistered(h))
	assert.True(t, s.IsRegistered(other))

	s.RunDue(c.advance(time.Second))
	assert.Zero(t, calls)
	assert.Equal(t, 1, s.Len())
}

func TestUnregisterFromCallback(t *testing.T) {
	s, c := newFake()

	var h Handle
	calls := 0
	h = s.Register(func() time.Duration {
		calls++
		s.Unregister(h)
		return time.Millisecond
	}, 0)

	s.RunDue(c.now())
	s.RunDue(c.advance(time.Second))

	assert.Equal(t, 1, calls)
	assert.False(t, s.IsRegistered(h))
}

func TestPanickingCallbackIsUnregistered(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c := &fakeClock{t: time.Unix(0, 0)}
	s := New(WithClock(c.now), WithLogger(zap.New(core)))

	h := s.Register(func() time.Duration { panic("boom") }, 0)
	ok := s.Register(func() time.Duration { return time.Millisecond }, 0)

	assert.Equal(t, 2, s.RunDue(c.now()))
	assert.False(t, s.IsRegistered(h))
	assert.True(t, s.IsRegistered(ok))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "scheduled callback panicked", logs.All()[0].Message)
}

func TestRun(t *testing.T) {
	s := New()

	var calls atomic.Int32
	done := make(chan struct{})

	s.Register(func() time.Duration {
		if calls.Add(1) == 3 {
			close(done)
			return 0
		}

		return time.Millisecond
	}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)

	go func() { errc <- s.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not run three times")
	}

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
	assert.EqualValues(t, 3, calls.Load())
	assert.Zero(t, s.Len())
}

func TestRun_PicksUpLateRegistration(t *testing.T) {
	s := New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	ran := make(chan struct{})
	s.Register(func() time.Duration {
		close(ran)
		return 0
	}, 0)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("late registration never ran")
	}

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
}
