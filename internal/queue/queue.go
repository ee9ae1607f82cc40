// Package queue provides an unbounded FIFO used to hand probe output from the
// polling goroutine to the foreground driver.
//
// Producers never block on [Queue.Push]. The consumer drains with
// [Queue.TryPop] or [Queue.Drain], or waits on [Queue.Ready] when it wants to
// block until something arrives. Once closed, pushes fail with [ErrClosed],
// which is how a producer learns that its receiver has gone away.
package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by [Queue.Push] after [Queue.Close].
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded, mutex-guarded FIFO. The zero value is not usable;
// create queues with [New].
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

// New creates an empty open [Queue].
func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
	}
}

// Push appends v to the tail of the queue.
//
// Push never blocks. It returns [ErrClosed] if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	// wake a waiting consumer without blocking if a wakeup is already pending
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// TryPop removes and returns the head of the queue.
// The boolean is false when the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Drain removes and returns every queued item in FIFO order.
// Returns nil when the queue is empty.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Ready returns a channel that receives a value after a push.
//
// A single wakeup may cover several pushes, so consumers should drain fully
// after each receive.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Items already queued remain poppable.
// Safe to call multiple times.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
