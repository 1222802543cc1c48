package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"elibrary/pkg/database"
	"elibrary/pkg/models"
)

func TestPublishAndFlushWritesNotification(t *testing.T) {
	db := database.InitTest()
	n := NewNotifier(db)

	n.Publish(1, 2, "Return confirmed")
	n.Publish(3, 2, "Return confirmed")
	n.Flush()

	var stored []models.Notification
	assert.NoError(t, db.Order("user_id").Find(&stored).Error)
	assert.Len(t, stored, 2)
	assert.Equal(t, uint(1), stored[0].UserID)
	assert.Equal(t, uint(2), stored[0].BookID)
	assert.Equal(t, "Return confirmed", stored[0].Message)
	assert.False(t, stored[0].IsRead)
}

func TestDrainSkipsParkedRetries(t *testing.T) {
	db := database.InitTest()
	n := NewNotifier(db)

	n.q.enqueue(&pendingNotification{
		UserID:     1,
		BookID:     1,
		Message:    "later",
		RetryAt:    time.Now().Add(time.Hour),
		MaxRetries: defaultMaxRetries,
	})

	n.drain(time.Now())

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 1, n.q.size(), "parked item stays queued")
}

func TestQueueOrdering(t *testing.T) {
	q := newQueue()
	now := time.Now()

	q.enqueue(&pendingNotification{Message: "first", RetryAt: now})
	q.enqueue(&pendingNotification{Message: "parked", RetryAt: now.Add(time.Minute)})
	q.enqueue(&pendingNotification{Message: "second", RetryAt: now})

	assert.Equal(t, "first", q.dequeue(now).Message)
	assert.Equal(t, "second", q.dequeue(now).Message)
	assert.Nil(t, q.dequeue(now))
	assert.Equal(t, 1, q.size())
}
