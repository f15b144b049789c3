package event

import (
	"sync/atomic"
)

// DefaultQueueSize bounds the number of events buffered between two ticks.
const DefaultQueueSize = 1024

// Queue is a multi-producer single-consumer FIFO.
// Thread-Safety:
//   - Push: any number of goroutines, never blocks
//   - Drain, Reset: the consumer only
//
// Overflow: new events are dropped and counted when the buffer is full.
type Queue[T any] struct {
	ch      chan T
	dropped atomic.Uint64
}

// NewQueue creates a queue holding up to size pending items.
// A size below 1 selects DefaultQueueSize.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = DefaultQueueSize
	}

	return &Queue[T]{ch: make(chan T, size)}
}

// Push enqueues v and reports whether it was accepted.
func (q *Queue[T]) Push(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		q.dropped.Add(1)

		return false
	}
}

// Drain returns every item available right now, oldest first, without waiting.
func (q *Queue[T]) Drain() []T {
	n := len(q.ch)
	if n == 0 {
		return nil
	}

	out := make([]T, 0, n)

	for {
		select {
		case v := <-q.ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

// Reset discards every pending item.
func (q *Queue[T]) Reset() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}

// Len returns the approximate number of pending items.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// Dropped returns how many pushes were rejected since creation.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}
