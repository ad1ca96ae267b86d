// Package bus provides the unbounded queues that carry actions and app
// events between goroutines.
package bus

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send once the consumer has gone away.
var ErrClosed = errors.New("bus: queue closed")

// Sender is the producer side of a Queue. Background tasks and components
// receive only this.
type Sender[T any] interface {
	Send(v T) error
}

// Queue is an unbounded FIFO with any number of producers and one consumer.
// Send never blocks.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{}, 1)}
}

// Send appends v. It fails only after Close.
func (q *Queue[T]) Send(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// TryRecv pops the oldest item without waiting.
func (q *Queue[T]) TryRecv() (T, bool) {
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

// Ready is signalled after a Send. A receive from it does not guarantee an
// item; callers drain with TryRecv.
func (q *Queue[T]) Ready() <-chan struct{} { return q.ready }

// Len reports the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further sends. Queued items can still be received.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
