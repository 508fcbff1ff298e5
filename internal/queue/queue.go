package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Dequeue once the queue is shut down and empty.
var ErrClosed = errors.New("queue closed")

type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is an unbounded FIFO with a blocking Dequeue and a shutdown signal.
// The zero value is not usable; call New.
type Queue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	front    *node[T] // nil iff rear is nil
	rear     *node[T]
	length   int
	shutdown bool
}

// New creates an empty queue
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends v and wakes one waiting consumer. It never blocks on capacity.
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}

	q.mu.Lock()
	if q.rear == nil {
		q.front = n
		q.rear = n
	} else {
		q.rear.next = n
		q.rear = n
	}
	q.length++
	q.cond.Signal()
	q.mu.Unlock()
}

// Dequeue removes and returns the oldest item, blocking while the queue is
// empty. After Shutdown, remaining items are still handed out; ErrClosed is
// returned only once the queue is both shut down and empty.
func (q *Queue[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.front == nil && !q.shutdown {
		q.cond.Wait()
	}

	if q.front == nil {
		var zero T
		return zero, ErrClosed
	}

	n := q.front
	q.front = n.next
	if q.front == nil {
		q.rear = nil
	}
	q.length--
	n.next = nil
	return n.value, nil
}

// Shutdown marks the queue closed and wakes every waiter. Calling it more
// than once is a no-op.
func (q *Queue[T]) Shutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// Destroy unlinks every remaining node and returns the items it held, in
// queue order. Releasing those items is up to the caller.
func (q *Queue[T]) Destroy() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]T, 0, q.length)
	for q.front != nil {
		n := q.front
		q.front = n.next
		n.next = nil
		items = append(items, n.value)
	}
	q.rear = nil
	q.length = 0
	return items
}
