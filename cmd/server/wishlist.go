package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elibrary/pkg/auth"
	"elibrary/pkg/models"
)

func getWishlist(c *gin.Context) {
	claims := auth.CurrentUser(c)

	var entries []models.Wishlist
	err := db.Where("user_id = ?", claims.UserID).
		Preload("Book").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch wishlist"})
		return
	}

	items := make([]gin.H, len(entries))
	for i, entry := range entries {
		items[i] = gin.H{
			"id": entry.ID,
			"book": gin.H{
				"id":          entry.Book.ID,
				"title":       entry.Book.Title,
				"author":      entry.Book.Author,
				"coverImage":  entry.Book.CoverImage,
				"description": entry.Book.Description,
				"stock":       entry.Book.Stock,
			},
		}
	}
	c.JSON(http.StatusOK, items)
}

func addToWishlist(c *gin.Context) {
	claims := auth.CurrentUser(c)

	var request struct {
		BookID uint `json:"bookId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	var book models.Book
	if err := db.First(&book, request.BookID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	var existing models.Wishlist
	err := db.Where("user_id = ? AND book_id = ?", claims.UserID, request.BookID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Already in wishlist"})
		return
	}

	entry := models.Wishlist{UserID: claims.UserID, BookID: request.BookID}
	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book added to wishlist"})
}

func removeFromWishlist(c *gin.Context) {
	claims := auth.CurrentUser(c)
	bookID, err := parseID(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid book id"})
		return
	}

	err = db.Where("user_id = ? AND book_id = ?", claims.UserID, bookID).
		Delete(&models.Wishlist{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove from wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}
