package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elibrary/pkg/models"
)

// getAllUsers is the admin dashboard listing: every user with live borrow
// and fine stats. Total fines go through the lending service so the number
// always matches what each loan would actually charge.
func getAllUsers(c *gin.Context) {
	var users []models.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}

	items := make([]gin.H, len(users))
	for i, user := range users {
		var activeBorrows int64
		db.Model(&models.Borrow{}).
			Where("user_id = ? AND returned = ?", user.ID, false).
			Count(&activeBorrows)

		var wishlistCount int64
		db.Model(&models.Wishlist{}).
			Where("user_id = ?", user.ID).
			Count(&wishlistCount)

		totalFines, err := loans.UserTotalFines(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
			return
		}

		items[i] = gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"createdAt":     user.CreatedAt,
			"activeBorrows": activeBorrows,
			"totalFines":    totalFines,
			"wishlistCount": wishlistCount,
		}
	}
	c.JSON(http.StatusOK, items)
}
