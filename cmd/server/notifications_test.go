package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"elibrary/pkg/models"
)

func TestNotificationsListNewestFirst(t *testing.T) {
	router := setupTest(t)
	user, token := createTestUser(t, "Alice", "alice@example.com", "user")
	book := createTestBook(t, "Subject", 1)

	notifier.Publish(user.ID, book.ID, "first")
	notifier.Publish(user.ID, book.ID, "second")
	notifier.Flush()

	w := doRequest(router, "GET", "/api/notifications", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var items []map[string]interface{}
	decodeInto(t, w, &items)
	assert.Len(t, items, 2)
	assert.Equal(t, false, items[0]["isRead"])
}

func TestNotificationsScopedToUser(t *testing.T) {
	router := setupTest(t)
	alice, _ := createTestUser(t, "Alice", "alice@example.com", "user")
	_, bobToken := createTestUser(t, "Bob", "bob@example.com", "user")
	book := createTestBook(t, "Subject", 1)

	notifier.Publish(alice.ID, book.ID, "for alice only")
	notifier.Flush()

	w := doRequest(router, "GET", "/api/notifications", bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	decodeInto(t, w, &items)
	assert.Len(t, items, 0)
}

func TestMarkNotificationRead(t *testing.T) {
	router := setupTest(t)
	user, token := createTestUser(t, "Alice", "alice@example.com", "user")
	_, bobToken := createTestUser(t, "Bob", "bob@example.com", "user")
	book := createTestBook(t, "Subject", 1)

	notifier.Publish(user.ID, book.ID, "unread")
	notifier.Flush()

	var n models.Notification
	db.Where("user_id = ?", user.ID).First(&n)

	// another user cannot touch it
	w := doRequest(router, "PATCH", fmt.Sprintf("/api/notifications/%d/read", n.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, "PATCH", fmt.Sprintf("/api/notifications/%d/read", n.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&n, n.ID)
	assert.True(t, n.IsRead)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	router := setupTest(t)
	user, token := createTestUser(t, "Alice", "alice@example.com", "user")
	book := createTestBook(t, "Subject", 1)

	notifier.Publish(user.ID, book.ID, "one")
	notifier.Publish(user.ID, book.ID, "two")
	notifier.Flush()

	w := doRequest(router, "POST", "/api/notifications/read-all", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unread)
	assert.Equal(t, int64(0), unread)
}
