package main

import (
	"log"

	"elibrary/pkg/database"
	"elibrary/pkg/models"
)

// One-shot migration for records created before the paid flag existed:
// loans already returned still had is_fine_paid = false even though their
// fines were settled at the desk. Marks them paid so they stop showing up
// in pending-fine views.
func main() {
	db := database.Init()

	log.Println("Starting legacy fine migration...")

	res := db.Model(&models.Borrow{}).
		Where("returned = ? AND is_fine_paid = ?", true, false).
		Update("is_fine_paid", true)
	if res.Error != nil {
		log.Fatalf("Migration failed: %v", res.Error)
	}

	log.Printf("Migration complete. modified: %d", res.RowsAffected)
}
