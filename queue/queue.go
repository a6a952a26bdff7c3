package queue

import (
	"sync"

	"github.com/finsuite/mlacs/core"
)

// Queue is a mutex-guarded ordered buffer of messages. It is safe for
// concurrent use; every operation holds the lock only for the duration of a
// short bounded critical section, so callers can treat Enqueue/Dequeue as
// non-blocking for practical purposes.
type Queue struct {
	mu    sync.Mutex
	items []core.Message
}

// New constructs an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue inserts a message preserving priority order: immediately before the
// first buffered entry with strictly lower priority, else appended. The
// insert is stable, so equal-priority messages retain arrival order.
func (q *Queue) Enqueue(msg core.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pos := len(q.items)
	for i, existing := range q.items {
		if existing.Priority < msg.Priority {
			pos = i
			break
		}
	}

	q.items = append(q.items, core.Message{})
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = msg
}

// Dequeue removes and returns the highest-priority, oldest-enqueued message.
// The boolean is false when the queue is empty.
func (q *Queue) Dequeue() (core.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return core.Message{}, false
	}
	msg := q.items[0]
	q.items = q.items[1:]
	return msg, true
}

// Peek returns the message Dequeue would deliver next without removing it.
func (q *Queue) Peek() (core.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return core.Message{}, false
	}
	return q.items[0], true
}

// Size returns the current number of buffered messages.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
