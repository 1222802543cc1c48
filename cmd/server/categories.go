package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elibrary/pkg/models"
)

func getCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
		return
	}

	items := make([]gin.H, len(categories))
	for i, category := range categories {
		items[i] = gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createCategory(c *gin.Context) {
	var request struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	var existing models.Category
	if err := db.Where("name = ?", request.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Category already exists"})
		return
	}

	category := models.Category{Name: request.Name, Description: request.Description}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"description": category.Description,
	})
}

func deleteCategory(c *gin.Context) {
	var category models.Category
	if err := db.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	if err := db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
