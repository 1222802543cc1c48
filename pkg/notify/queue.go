package notify

import (
	"sync"
	"time"
)

type pendingNotification struct {
	UserID     uint
	BookID     uint
	Message    string
	RetryAt    time.Time
	RetryCount int
	MaxRetries int
}

// queue holds notifications waiting to be written, including ones parked for
// a retry after a failed insert.
type queue struct {
	items []*pendingNotification
	mu    sync.Mutex
}

func newQueue() *queue {
	return &queue{items: make([]*pendingNotification, 0)}
}

func (q *queue) enqueue(n *pendingNotification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
}

// dequeue pops the first notification whose RetryAt has passed, or nil.
func (q *queue) dequeue(now time.Time) *pendingNotification {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if !n.RetryAt.After(now) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return n
		}
	}
	return nil
}

func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
