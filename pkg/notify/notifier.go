package notify

import (
	"log"
	"time"

	"gorm.io/gorm"

	"elibrary/pkg/breaker"
	"elibrary/pkg/models"
)

const (
	defaultMaxRetries = 3
	retryDelay        = 10 * time.Second
	drainInterval     = time.Second
)

// Notifier records user-facing messages produced by lifecycle transitions.
// Delivery is best-effort: Publish never blocks on the store and never
// reports an error to the caller; failed inserts are retried a few times and
// then dropped with a log line.
type Notifier struct {
	db   *gorm.DB
	q    *queue
	cb   *breaker.Breaker
	stop chan struct{}
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:   db,
		q:    newQueue(),
		cb:   breaker.New(5, 30*time.Second),
		stop: make(chan struct{}),
	}
}

// Publish queues a notification for the given user about the given book.
func (n *Notifier) Publish(userID, bookID uint, message string) {
	n.q.enqueue(&pendingNotification{
		UserID:     userID,
		BookID:     bookID,
		Message:    message,
		RetryAt:    time.Now(),
		MaxRetries: defaultMaxRetries,
	})
}

// Start launches the background drain loop.
func (n *Notifier) Start() {
	go func() {
		ticker := time.NewTicker(drainInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n.drain(time.Now())
			case <-n.stop:
				return
			}
		}
	}()
}

func (n *Notifier) Stop() {
	close(n.stop)
}

// Flush delivers everything queued right now, ignoring retry delays. Used on
// shutdown and by tests.
func (n *Notifier) Flush() {
	for n.q.size() > 0 {
		item := n.q.dequeue(time.Now().Add(retryDelay * defaultMaxRetries))
		if item == nil {
			return
		}
		n.deliver(item, true)
	}
}

func (n *Notifier) drain(now time.Time) {
	for {
		item := n.q.dequeue(now)
		if item == nil {
			return
		}
		n.deliver(item, false)
	}
}

func (n *Notifier) deliver(item *pendingNotification, final bool) {
	err := n.cb.Do(func() error {
		return n.db.Create(&models.Notification{
			UserID:  item.UserID,
			BookID:  item.BookID,
			Message: item.Message,
		}).Error
	})
	if err == nil {
		return
	}

	item.RetryCount++
	if final || item.RetryCount >= item.MaxRetries {
		log.Printf("Dropping notification for user %d after %d attempts: %v",
			item.UserID, item.RetryCount, err)
		return
	}
	item.RetryAt = time.Now().Add(retryDelay)
	n.q.enqueue(item)
}
