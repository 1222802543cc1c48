package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:80;not null"`
	Email        string `gorm:"size:120;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:20;not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:80;not null;uniqueIndex"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Book struct {
	ID          uint   `gorm:"primaryKey"`
	BookUid     string `gorm:"type:uuid;uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Author      string `gorm:"not null"`
	Description string
	CoverImage  string
	Isbn        string
	Price       int
	Stock       int     `gorm:"not null;default:1"`
	Status      string  `gorm:"size:20;not null;default:'available'"`
	Rating      float64 `gorm:"default:0"`
	CategoryID  *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Reviews  []Review  `gorm:"foreignKey:BookID"`
}

// Book status labels. Only "available" and "issued" are projected from
// stock by the lending engine; the rest are administrative.
const (
	BookStatusAvailable   = "available"
	BookStatusIssued      = "issued"
	BookStatusReserved    = "reserved"
	BookStatusArchived    = "archived"
	BookStatusDamaged     = "damaged"
	BookStatusLost        = "lost"
	BookStatusDigitalOnly = "digital_only"
)

type Review struct {
	ID        uint `gorm:"primaryKey"`
	BookID    uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null"`
	Rating    int  `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}

type Borrow struct {
	ID              uint   `gorm:"primaryKey"`
	BorrowUid       string `gorm:"type:uuid;uniqueIndex;not null"`
	UserID          uint   `gorm:"not null;index"`
	BookID          uint   `gorm:"not null;index"`
	BorrowDate      time.Time
	DueDate         time.Time `gorm:"not null"`
	Returned        bool      `gorm:"not null;default:false"`
	ReturnRequested bool      `gorm:"not null;default:false"`
	ReturnDate      *time.Time
	FineAmount      int  `gorm:"not null;default:0"`
	IsFinePaid      bool `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User User `gorm:"foreignKey:UserID"`
	Book Book `gorm:"foreignKey:BookID"`
}

type Wishlist struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_wishlist_user_book"`
	BookID    uint `gorm:"not null;uniqueIndex:idx_wishlist_user_book"`
	CreatedAt time.Time

	Book Book `gorm:"foreignKey:BookID"`
}

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	BookID    uint   `gorm:"not null"`
	Message   string `gorm:"not null"`
	IsRead    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
