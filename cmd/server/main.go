package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"elibrary/pkg/auth"
	"elibrary/pkg/database"
	"elibrary/pkg/lending"
	"elibrary/pkg/notify"
)

var (
	db       *gorm.DB
	notifier *notify.Notifier
	loans    *lending.Service
)

func main() {
	log.Println("Starting e-library server...")

	db = database.Init()

	notifier = notify.NewNotifier(db)
	notifier.Start()
	defer notifier.Stop()

	loans = lending.NewService(db, notifier)

	seedData()

	server := setupRouter()

	port := getEnv("PORT", "8080")
	log.Printf("E-library server starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func setupRouter() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	api.POST("/auth/register", register)
	api.POST("/auth/login", login)
	api.GET("/auth/me", auth.RequireAuth(), me)

	api.GET("/books", getBooks)
	api.GET("/books/:id", getBook)
	api.POST("/books", auth.RequireAuth(), auth.RequireAdmin(), createBook)
	api.PUT("/books/:id", auth.RequireAuth(), auth.RequireAdmin(), updateBook)
	api.DELETE("/books/:id", auth.RequireAuth(), auth.RequireAdmin(), deleteBook)
	api.POST("/books/:id/rate", auth.RequireAuth(), rateBook)

	api.GET("/categories", getCategories)
	api.POST("/categories", auth.RequireAuth(), auth.RequireAdmin(), createCategory)
	api.DELETE("/categories/:id", auth.RequireAuth(), auth.RequireAdmin(), deleteCategory)

	borrow := api.Group("/borrow", auth.RequireAuth())
	borrow.POST("/book/:bookId", borrowBook)
	borrow.POST("/request-return/:borrowId", requestReturn)
	borrow.POST("/confirm-return/:borrowId", auth.RequireAdmin(), confirmReturn)
	borrow.POST("/pay-fine/:borrowId", payFine)
	borrow.GET("/mybooks", getMyBorrowedBooks)
	borrow.GET("/myfines", getMyFines)
	borrow.GET("/all", auth.RequireAdmin(), getAllBorrowedBooks)

	wishlist := api.Group("/wishlist", auth.RequireAuth())
	wishlist.GET("", getWishlist)
	wishlist.POST("", addToWishlist)
	wishlist.DELETE("/:bookId", removeFromWishlist)

	notifications := api.Group("/notifications", auth.RequireAuth())
	notifications.GET("", getNotifications)
	notifications.PATCH("/:id/read", markNotificationRead)
	notifications.POST("/read-all", markAllNotificationsRead)

	api.GET("/users", auth.RequireAuth(), auth.RequireAdmin(), getAllUsers)

	r.GET("/manage/health", healthCheck)

	return r
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
