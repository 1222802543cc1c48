package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"elibrary/pkg/database"
	"elibrary/pkg/fines"
	"elibrary/pkg/models"
)

// Prints every loan that still carries an unpaid fine and writes the same
// report to fines_report.txt.
func main() {
	db := database.Init()

	var borrows []models.Borrow
	err := db.Where("is_fine_paid = ?", false).
		Preload("User").
		Preload("Book").
		Order("due_date").
		Find(&borrows).Error
	if err != nil {
		log.Fatalf("Failed to fetch borrows: %v", err)
	}

	now := time.Now()
	report := "Users with Fines:\n"
	total := 0
	for _, b := range borrows {
		amount := fines.Compute(b.DueDate, now, b.Returned, b.FineAmount)
		if amount <= 0 {
			continue
		}
		total += amount
		report += fmt.Sprintf("User: %s (%s) - Fine: %d - Book: %s\n",
			b.User.Name, b.User.Email, amount, b.Book.Title)
	}
	report += fmt.Sprintf("Total outstanding: %d\n", total)

	fmt.Print(report)
	if err := os.WriteFile("fines_report.txt", []byte(report), 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}
