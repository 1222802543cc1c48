package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elibrary/pkg/auth"
	"elibrary/pkg/models"
)

func getNotifications(c *gin.Context) {
	claims := auth.CurrentUser(c)

	var notifications []models.Notification
	err := db.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Limit(20).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch notifications"})
		return
	}

	items := make([]gin.H, len(notifications))
	for i, n := range notifications {
		items[i] = gin.H{
			"id":        n.ID,
			"bookId":    n.BookID,
			"message":   n.Message,
			"isRead":    n.IsRead,
			"createdAt": n.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, items)
}

func markNotificationRead(c *gin.Context) {
	claims := auth.CurrentUser(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification id"})
		return
	}

	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, claims.UserID).
		Update("is_read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	claims := auth.CurrentUser(c)

	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.UserID, false).
		Update("is_read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
