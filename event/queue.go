// Package event provides the FIFO queue that carries asynchronous
// notifications (buffer releases, format and global announcements) from
// the connection's read context to the context that owns protocol state.
package event

import (
	"sync"

	"github.com/eapache/queue"
)

// Callback is one pending notification.
type Callback func()

// Queue is a thread-safe FIFO of pending callbacks. Any context may Post;
// the owning context drains with Dispatch, which runs callbacks on the
// caller.
type Queue struct {
	mu      sync.Mutex
	pending *queue.Queue
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: queue.New()}
}

// Post appends a callback to the queue.
func (q *Queue) Post(cb Callback) {
	if cb == nil {
		return
	}
	q.mu.Lock()
	q.pending.Add(cb)
	q.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Length()
}

// Dispatch drains the queue, running each callback in posting order on the
// calling context, and returns how many ran. Callbacks posted while
// dispatching run in the same drain.
func (q *Queue) Dispatch() int {
	n := 0
	for {
		q.mu.Lock()
		if q.pending.Length() == 0 {
			q.mu.Unlock()
			return n
		}
		cb := q.pending.Remove().(Callback)
		q.mu.Unlock()

		cb()
		n++
	}
}
