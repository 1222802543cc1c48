package lending

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"elibrary/pkg/fines"
	"elibrary/pkg/models"
)

// LoanPeriod is how long a borrower may keep a book before fines accrue.
const LoanPeriod = 14 * 24 * time.Hour

// Notifier records a user-facing message. Implementations must be
// best-effort; the engine never checks whether delivery happened.
type Notifier interface {
	Publish(userID, bookID uint, message string)
}

// Service owns every state transition of Borrow records and the
// stock/status fields of Books. No other code writes these fields.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Borrow creates a loan for the user and takes one copy off the shelf. The
// stock check and decrement run as a single conditional UPDATE so two
// concurrent borrows can never both take the last copy.
func (s *Service) Borrow(userID, bookID uint) (*models.Borrow, error) {
	now := s.now()
	var created models.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var active int64
		err := tx.Model(&models.Borrow{}).
			Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyBorrowed
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND stock >= 1", bookID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		// status mirrors stock; re-project it inside the same transaction
		err = tx.Model(&models.Book{}).
			Where("id = ? AND stock = 0", bookID).
			Update("status", models.BookStatusIssued).Error
		if err != nil {
			return err
		}

		created = models.Borrow{
			BorrowUid:  uuid.New().String(),
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.Add(LoanPeriod),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RequestReturn flags an active loan as awaiting admin confirmation. An
// overdue loan with an unpaid fine cannot be handed back; the fine has to be
// settled first.
func (s *Service) RequestReturn(userID, borrowID uint) error {
	now := s.now()

	var rec models.Borrow
	err := s.db.
		Where("id = ? AND user_id = ? AND returned = ?", borrowID, userID, false).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoanNotFound
		}
		return err
	}

	if rec.ReturnRequested {
		return ErrReturnAlreadyRequested
	}
	if !rec.IsFinePaid && fines.LateDays(rec.DueDate, now) > 0 {
		return ErrPaymentRequired
	}

	err = s.db.Model(&rec).Update("return_requested", true).Error
	if err != nil {
		return err
	}

	s.notifyAdmins(&rec)
	return nil
}

// ConfirmReturn settles an active loan: it freezes the fine, puts the copy
// back on the shelf and tells the borrower. Keyed on returned=false so a
// concurrent double-confirm loses the race instead of incrementing stock
// twice.
func (s *Service) ConfirmReturn(borrowID uint) (*models.Borrow, error) {
	now := s.now()
	var rec models.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, borrowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if rec.Returned {
			return ErrLoanNotFound
		}

		fine := fines.Compute(rec.DueDate, now, false, 0)

		res := tx.Model(&models.Borrow{}).
			Where("id = ? AND returned = ?", borrowID, false).
			Updates(map[string]interface{}{
				"returned":         true,
				"return_requested": false,
				"return_date":      now,
				"fine_amount":      fine,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLoanNotFound
		}

		err := tx.Model(&models.Book{}).
			Where("id = ?", rec.BookID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.Book{}).
			Where("id = ? AND stock > 0", rec.BookID).
			Update("status", models.BookStatusAvailable).Error
		if err != nil {
			return err
		}

		rec.Returned = true
		rec.ReturnRequested = false
		rec.ReturnDate = &now
		rec.FineAmount = fine
		return nil
	})
	if err != nil {
		return nil, err
	}

	var book models.Book
	if err := s.db.First(&book, rec.BookID).Error; err == nil {
		s.notifier.Publish(rec.UserID, rec.BookID,
			fmt.Sprintf("Return confirmed for %q. Fine: %d", book.Title, rec.FineAmount))
	} else {
		log.Printf("Failed to load book %d for return notification: %v", rec.BookID, err)
	}

	return &rec, nil
}

// PayFine marks the loan's current fine as settled. The amount stays on the
// record for history; only the paid flag flips.
func (s *Service) PayFine(userID, borrowID uint) (int, error) {
	now := s.now()

	var rec models.Borrow
	err := s.db.Where("id = ? AND user_id = ?", borrowID, userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrLoanNotFound
		}
		return 0, err
	}

	fine := fines.Compute(rec.DueDate, now, rec.Returned, rec.FineAmount)
	if fine <= 0 {
		return 0, ErrNoFineDue
	}

	err = s.db.Model(&rec).Update("is_fine_paid", true).Error
	if err != nil {
		return 0, err
	}
	return fine, nil
}

func (s *Service) notifyAdmins(rec *models.Borrow) {
	var book models.Book
	if err := s.db.First(&book, rec.BookID).Error; err != nil {
		log.Printf("Failed to load book %d for return request notification: %v", rec.BookID, err)
		return
	}
	var user models.User
	if err := s.db.First(&user, rec.UserID).Error; err != nil {
		log.Printf("Failed to load user %d for return request notification: %v", rec.UserID, err)
		return
	}

	var admins []models.User
	if err := s.db.Where("role = ?", "admin").Find(&admins).Error; err != nil {
		log.Printf("Failed to load admins for return request notification: %v", err)
		return
	}
	message := fmt.Sprintf("Return request: %s wants to return %q", user.Name, book.Title)
	for _, admin := range admins {
		s.notifier.Publish(admin.ID, rec.BookID, message)
	}
}
