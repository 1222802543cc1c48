package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"elibrary/pkg/auth"
	"elibrary/pkg/database"
	"elibrary/pkg/lending"
	"elibrary/pkg/models"
	"elibrary/pkg/notify"
)

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db = database.InitTest()
	notifier = notify.NewNotifier(db)
	loans = lending.NewService(db, notifier)

	return setupRouter()
}

func createTestUser(t *testing.T, name, email, role string) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	user := models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	assert.NoError(t, db.Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	assert.NoError(t, err)
	return user, token
}

func createTestBook(t *testing.T, title string, stock int) models.Book {
	t.Helper()
	book := models.Book{
		BookUid: uuid.New().String(),
		Title:   title,
		Author:  "Test Author",
		Stock:   stock,
		Status:  models.BookStatusAvailable,
	}
	if stock == 0 {
		book.Status = models.BookStatusIssued
	}
	assert.NoError(t, db.Create(&book).Error)
	return book
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

func TestHealthCheck(t *testing.T) {
	router := setupTest(t)

	w := doRequest(router, "GET", "/manage/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "UP", body["status"])
}
