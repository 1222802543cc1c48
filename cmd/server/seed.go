package main

import (
	"log"

	"github.com/google/uuid"

	"elibrary/pkg/auth"
	"elibrary/pkg/models"
)

func seedData() {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@elibrary.local")

	var admin models.User
	if err := db.Where("email = ?", adminEmail).First(&admin).Error; err != nil {
		hash, err := auth.HashPassword(getEnv("ADMIN_PASSWORD", "admin123"))
		if err != nil {
			log.Printf("Failed to hash admin password: %v", err)
			return
		}
		admin = models.User{
			Name:         "Administrator",
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Failed to create admin user: %v", err)
		} else {
			log.Printf("Created admin user: %s", admin.Email)
		}
	}

	categories := []models.Category{
		{Name: "Fiction", Description: "Novels and short stories"},
		{Name: "Science", Description: "Science and technology"},
		{Name: "History", Description: "Historical works"},
	}
	for _, category := range categories {
		var existing models.Category
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err != nil {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to create category %s: %v", category.Name, err)
			}
		}
	}

	books := []models.Book{
		{Title: "The Go Programming Language", Author: "Alan Donovan", Stock: 3},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", Stock: 2},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Stock: 1},
	}
	for _, book := range books {
		var existing models.Book
		if err := db.Where("title = ?", book.Title).First(&existing).Error; err != nil {
			book.BookUid = uuid.New().String()
			book.Status = models.BookStatusAvailable
			if err := db.Create(&book).Error; err != nil {
				log.Printf("Failed to create book %s: %v", book.Title, err)
			}
		}
	}

	log.Println("Seed data ready")
}
