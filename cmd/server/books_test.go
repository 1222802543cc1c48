package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"elibrary/pkg/models"
)

func TestGetBooksPagination(t *testing.T) {
	router := setupTest(t)
	for i := 0; i < 5; i++ {
		createTestBook(t, fmt.Sprintf("Book %d", i), 1)
	}

	w := doRequest(router, "GET", "/api/books?page=1&limit=2", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Len(t, body["data"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(5), pagination["total"])
	assert.Equal(t, float64(3), pagination["totalPages"])
}

func TestGetBooksFilterByCategory(t *testing.T) {
	router := setupTest(t)

	category := models.Category{Name: "Fiction"}
	assert.NoError(t, db.Create(&category).Error)

	book := createTestBook(t, "In Category", 1)
	db.Model(&book).Update("category_id", category.ID)
	createTestBook(t, "No Category", 1)

	w := doRequest(router, "GET", fmt.Sprintf("/api/books?category=%d", category.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["data"], 1)
}

func TestGetBookWithReviews(t *testing.T) {
	router := setupTest(t)
	_, token := createTestUser(t, "Alice", "alice@example.com", "user")
	book := createTestBook(t, "Reviewed", 1)

	w := doRequest(router, "POST", fmt.Sprintf("/api/books/%d/rate", book.ID), token,
		map[string]interface{}{"rating": 4, "comment": "Solid read"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", fmt.Sprintf("/api/books/%d", book.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Reviewed", body["title"])
	assert.Equal(t, float64(4), body["rating"])

	reviews := body["reviews"].([]interface{})
	assert.Len(t, reviews, 1)
	first := reviews[0].(map[string]interface{})
	assert.Equal(t, "Alice", first["user"])
	assert.Equal(t, "Solid read", first["comment"])
}

func TestCreateBookRequiresAdmin(t *testing.T) {
	router := setupTest(t)
	_, userToken := createTestUser(t, "Alice", "alice@example.com", "user")
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")

	payload := map[string]interface{}{"title": "New Book", "author": "Someone"}

	w := doRequest(router, "POST", "/api/books", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "POST", "/api/books", adminToken, payload)
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	// stock defaults to 1 copy
	assert.Equal(t, float64(1), body["stock"])
	assert.Equal(t, models.BookStatusAvailable, body["status"])
	assert.NotEmpty(t, body["bookUid"])
}

func TestCreateBookZeroStockIsIssued(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")

	w := doRequest(router, "POST", "/api/books", adminToken, map[string]interface{}{
		"title":  "Sold Out",
		"author": "Someone",
		"stock":  0,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, models.BookStatusIssued, body["status"])
}

func TestUpdateBookPartial(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")
	book := createTestBook(t, "Old Title", 2)

	w := doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"title": "New Title"})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Book
	db.First(&updated, book.ID)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "Test Author", updated.Author, "untouched fields survive")
	assert.Equal(t, 2, updated.Stock)
}

func TestUpdateBookStockProjection(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")
	book := createTestBook(t, "Projection", 2)

	w := doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"stock": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Book
	db.First(&updated, book.ID)
	assert.Equal(t, models.BookStatusIssued, updated.Status)

	// negative stock is rejected
	w = doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"stock": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookKeepsAdminStatus(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")
	book := createTestBook(t, "Lost One", 0)
	db.Model(&book).Update("status", models.BookStatusLost)

	w := doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"stock": 3})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Book
	db.First(&updated, book.ID)
	assert.Equal(t, models.BookStatusLost, updated.Status,
		"stock change must not clobber an administrative status")
}

func TestUpdateBookRestockNotifiesWishlist(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")
	alice, _ := createTestUser(t, "Alice", "alice@example.com", "user")
	bob, _ := createTestUser(t, "Bob", "bob@example.com", "user")
	book := createTestBook(t, "Wanted", 0)

	assert.NoError(t, db.Create(&models.Wishlist{UserID: alice.ID, BookID: book.ID}).Error)
	assert.NoError(t, db.Create(&models.Wishlist{UserID: bob.ID, BookID: book.ID}).Error)

	w := doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"stock": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	notifier.Flush()
	var notifications []models.Notification
	db.Find(&notifications)
	assert.Len(t, notifications, 2)
	assert.Contains(t, notifications[0].Message, "back in stock")

	// a second update that does not cross zero stays quiet
	w = doRequest(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID), adminToken,
		map[string]interface{}{"stock": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	notifier.Flush()
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRateBookUpsertsAndAverages(t *testing.T) {
	router := setupTest(t)
	_, aliceToken := createTestUser(t, "Alice", "alice@example.com", "user")
	_, bobToken := createTestUser(t, "Bob", "bob@example.com", "user")
	book := createTestBook(t, "Rated", 1)

	w := doRequest(router, "POST", fmt.Sprintf("/api/books/%d/rate", book.ID), aliceToken,
		map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "POST", fmt.Sprintf("/api/books/%d/rate", book.ID), bobToken,
		map[string]interface{}{"rating": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 3.5, body["rating"])

	// re-rating replaces, never duplicates
	w = doRequest(router, "POST", fmt.Sprintf("/api/books/%d/rate", book.ID), bobToken,
		map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, 4.5, body["rating"])

	var count int64
	db.Model(&models.Review{}).Where("book_id = ?", book.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRateBookRejectsOutOfRange(t *testing.T) {
	router := setupTest(t)
	_, token := createTestUser(t, "Alice", "alice@example.com", "user")
	book := createTestBook(t, "Rated", 1)

	w := doRequest(router, "POST", fmt.Sprintf("/api/books/%d/rate", book.ID), token,
		map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBook(t *testing.T) {
	router := setupTest(t)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "admin")
	book := createTestBook(t, "Doomed", 1)

	w := doRequest(router, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
