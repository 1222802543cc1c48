package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"elibrary/pkg/auth"
	"elibrary/pkg/models"
)

func getBooks(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 12
	}

	query := db.Model(&models.Book{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}

	var total int64
	query.Count(&total)

	var books []models.Book
	offset := (page - 1) * limit
	err = query.Preload("Category").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&books).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch books"})
		return
	}

	items := make([]gin.H, len(books))
	for i, book := range books {
		items[i] = bookResponse(book)
	}
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func getBook(c *gin.Context) {
	var book models.Book
	err := db.Preload("Category").Preload("Reviews.User").
		First(&book, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	item := bookResponse(book)
	reviews := make([]gin.H, len(book.Reviews))
	for i, review := range book.Reviews {
		reviews[i] = gin.H{
			"user":    review.User.Name,
			"rating":  review.Rating,
			"comment": review.Comment,
		}
	}
	item["reviews"] = reviews
	c.JSON(http.StatusOK, item)
}

func createBook(c *gin.Context) {
	var request struct {
		Title       string `json:"title" binding:"required"`
		Author      string `json:"author" binding:"required"`
		Description string `json:"description"`
		CoverImage  string `json:"coverImage"`
		Isbn        string `json:"isbn"`
		Price       int    `json:"price"`
		Stock       *int   `json:"stock"`
		CategoryID  *uint  `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	stock := 1
	if request.Stock != nil && *request.Stock >= 0 {
		stock = *request.Stock
	}
	status := models.BookStatusAvailable
	if stock == 0 {
		status = models.BookStatusIssued
	}

	book := models.Book{
		BookUid:     uuid.New().String(),
		Title:       request.Title,
		Author:      request.Author,
		Description: request.Description,
		CoverImage:  request.CoverImage,
		Isbn:        request.Isbn,
		Price:       request.Price,
		Stock:       stock,
		Status:      status,
		CategoryID:  request.CategoryID,
	}
	if err := db.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create book"})
		return
	}
	c.JSON(http.StatusCreated, bookResponse(book))
}

func updateBook(c *gin.Context) {
	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}
	oldStock := book.Stock

	var request struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		Description *string `json:"description"`
		CoverImage  *string `json:"coverImage"`
		Isbn        *string `json:"isbn"`
		Price       *int    `json:"price"`
		Stock       *int    `json:"stock"`
		Status      *string `json:"status"`
		CategoryID  *uint   `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	if request.Title != nil {
		book.Title = *request.Title
	}
	if request.Author != nil {
		book.Author = *request.Author
	}
	if request.Description != nil {
		book.Description = *request.Description
	}
	if request.CoverImage != nil {
		book.CoverImage = *request.CoverImage
	}
	if request.Isbn != nil {
		book.Isbn = *request.Isbn
	}
	if request.Price != nil {
		book.Price = *request.Price
	}
	if request.Status != nil {
		book.Status = *request.Status
	}
	if request.CategoryID != nil {
		book.CategoryID = request.CategoryID
	}
	if request.Stock != nil {
		if *request.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
			return
		}
		book.Stock = *request.Stock
		// status mirrors stock for the available/issued pair only;
		// administrative statuses stay as set
		if request.Status == nil &&
			(book.Status == models.BookStatusAvailable || book.Status == models.BookStatusIssued) {
			if book.Stock == 0 {
				book.Status = models.BookStatusIssued
			} else {
				book.Status = models.BookStatusAvailable
			}
		}
	}

	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update book"})
		return
	}

	if oldStock == 0 && book.Stock > 0 {
		notifyWishlistRestock(book)
	}

	c.JSON(http.StatusOK, bookResponse(book))
}

// notifyWishlistRestock tells everyone holding the book on their wishlist
// that it came back in stock. Best-effort.
func notifyWishlistRestock(book models.Book) {
	var entries []models.Wishlist
	if err := db.Where("book_id = ?", book.ID).Find(&entries).Error; err != nil {
		return
	}
	message := fmt.Sprintf("Great news! %q is now back in stock!", book.Title)
	for _, entry := range entries {
		notifier.Publish(entry.UserID, book.ID, message)
	}
}

func deleteBook(c *gin.Context) {
	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}
	if err := db.Delete(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func rateBook(c *gin.Context) {
	claims := auth.CurrentUser(c)

	var request struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be 1-5"})
		return
	}

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	var review models.Review
	err := db.Where("book_id = ? AND user_id = ?", book.ID, claims.UserID).First(&review).Error
	if err != nil {
		review = models.Review{
			BookID:  book.ID,
			UserID:  claims.UserID,
			Rating:  request.Rating,
			Comment: request.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Rating failed"})
			return
		}
	} else {
		review.Rating = request.Rating
		if request.Comment != "" {
			review.Comment = request.Comment
		}
		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Rating failed"})
			return
		}
	}

	var avg float64
	db.Model(&models.Review{}).Where("book_id = ?", book.ID).
		Select("avg(rating)").Scan(&avg)
	book.Rating = float64(int(avg*10+0.5)) / 10
	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Rating failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating added/updated",
		"rating":  book.Rating,
	})
}

func bookResponse(book models.Book) gin.H {
	item := gin.H{
		"id":          book.ID,
		"bookUid":     book.BookUid,
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"coverImage":  book.CoverImage,
		"isbn":        book.Isbn,
		"price":       book.Price,
		"stock":       book.Stock,
		"status":      book.Status,
		"rating":      book.Rating,
	}
	if book.Category != nil {
		item["category"] = gin.H{
			"id":   book.Category.ID,
			"name": book.Category.Name,
		}
	}
	return item
}
