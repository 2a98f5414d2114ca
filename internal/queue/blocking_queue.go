package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/ef-ds/deque"
)

// ErrClosed is returned by Enqueue once Close has been called.
var ErrClosed = errors.New("queue is closed")

// LengthObserver is called with the new length after every successful
// Enqueue or Dequeue. It runs outside the queue lock and must not block.
type LengthObserver func(int)

// Option configures a BlockingQueue at construction time.
type Option func(*options)

type options struct {
	observer LengthObserver
}

// WithLengthObserver installs a callback fed with the queue length after
// each change. Used to drive the queue depth gauge.
func WithLengthObserver(fn LengthObserver) Option {
	return func(o *options) {
		if fn != nil {
			o.observer = fn
		}
	}
}

// BlockingQueue is an unbounded FIFO safe for any number of producers and
// consumers. Consumers sleep on a condition variable while the queue is
// empty; an Enqueue, a Close, or the cancellation of the consumer's context
// wakes them.
//
// The deque and the closed flag are only touched with mu held, so Len always
// matches the number of items a consumer can still take.
type BlockingQueue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    deque.Deque
	closed   bool
	observer LengthObserver
}

func New[T any](opts ...Option) *BlockingQueue[T] {
	o := options{observer: func(int) {}}
	for _, opt := range opts {
		opt(&o)
	}

	q := &BlockingQueue[T]{observer: o.observer}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item to the tail and wakes one waiting consumer.
// It never blocks. After Close it returns ErrClosed and drops the item.
func (q *BlockingQueue[T]) Enqueue(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items.PushBack(item)
	n := q.items.Len()
	q.cond.Signal()
	q.mu.Unlock()

	q.observer(n)
	return nil
}

// Dequeue removes and returns the head of the queue, blocking while it is
// empty.
//
// It returns (zero, false), the end-of-stream signal, when:
//   - ctx is cancelled, even if items are still waiting;
//   - the queue is closed and every remaining item has been taken.
func (q *BlockingQueue[T]) Dequeue(ctx context.Context) (T, bool) {
	var zero T

	// Cancellation has to reach a consumer parked in cond.Wait. Taking the
	// lock before broadcasting guarantees the consumer is either still
	// before its predicate check or already waiting.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	for q.items.Len() == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}

	if ctx.Err() != nil || q.items.Len() == 0 {
		q.mu.Unlock()
		return zero, false
	}

	v, _ := q.items.PopFront()
	n := q.items.Len()
	q.mu.Unlock()

	q.observer(n)
	return v.(T), true
}

// Peek returns the head without removing it. It never blocks.
func (q *BlockingQueue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	v, ok := q.items.Front()
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Len is advisory: it may be stale by the time the caller looks at it.
func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close stops the queue from accepting items and wakes every blocked
// consumer. Items already queued can still be dequeued. Close is idempotent.
func (q *BlockingQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *BlockingQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
