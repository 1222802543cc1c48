package lending

import (
	"math"
	"strings"

	"elibrary/pkg/fines"
	"elibrary/pkg/models"
)

// LoanWithFine is a Borrow overlaid with the fine amount as of now. For
// active loans the stored FineAmount is stale by design; CurrentFine is the
// value callers should display and charge.
type LoanWithFine struct {
	models.Borrow
	CurrentFine int
}

type ListFilter struct {
	Status  string // "", "returned", "active", "overdue"
	HasFine *bool
	Search  string
	Page    int
	Limit   int
}

type LoanPage struct {
	Items      []LoanWithFine
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// MyLoans lists the user's active loans with book details and live fines.
func (s *Service) MyLoans(userID uint) ([]LoanWithFine, error) {
	var recs []models.Borrow
	err := s.db.
		Where("user_id = ? AND returned = ?", userID, false).
		Preload("Book").
		Order("borrow_date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return s.overlay(recs), nil
}

// MyFines lists the user's loans, active or returned, that still carry an
// unpaid fine.
func (s *Service) MyFines(userID uint) ([]LoanWithFine, error) {
	var recs []models.Borrow
	err := s.db.
		Where("user_id = ? AND is_fine_paid = ?", userID, false).
		Preload("Book").
		Order("due_date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	withFines := make([]LoanWithFine, 0, len(recs))
	for _, loan := range s.overlay(recs) {
		if loan.CurrentFine > 0 {
			withFines = append(withFines, loan)
		}
	}
	return withFines, nil
}

// AllLoans is the admin view over every loan, with status/fine filters,
// free-text search over borrower name, email and book title, and
// pagination.
func (s *Service) AllLoans(f ListFilter) (*LoanPage, error) {
	now := s.now()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}

	query := s.db.Model(&models.Borrow{})

	switch f.Status {
	case "returned":
		query = query.Where("returned = ?", true)
	case "active":
		query = query.Where("returned = ?", false)
	case "overdue":
		query = query.Where("returned = ? AND due_date < ?", false, now)
	}

	if f.HasFine != nil {
		if *f.HasFine {
			query = query.Where(
				"(fine_amount > 0 AND is_fine_paid = ?) OR (returned = ? AND due_date < ?)",
				false, false, now)
		} else {
			query = query.Where(
				"(fine_amount = 0 OR is_fine_paid = ?) AND (returned = ? OR due_date >= ?)",
				true, true, now)
		}
	}

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"

		var userIDs []uint
		err := s.db.Model(&models.User{}).
			Where("lower(name) LIKE ? OR lower(email) LIKE ?", pattern, pattern).
			Pluck("id", &userIDs).Error
		if err != nil {
			return nil, err
		}

		var bookIDs []uint
		err = s.db.Model(&models.Book{}).
			Where("lower(title) LIKE ?", pattern).
			Pluck("id", &bookIDs).Error
		if err != nil {
			return nil, err
		}

		query = query.Where("user_id IN ? OR book_id IN ?", userIDs, bookIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var recs []models.Borrow
	offset := (f.Page - 1) * f.Limit
	err := query.
		Preload("User").
		Preload("Book").
		Order("borrow_date DESC").
		Offset(offset).
		Limit(f.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	return &LoanPage{
		Items:      s.overlay(recs),
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

// UserTotalFines sums the live-or-frozen fine over the user's unpaid loans.
// Always derived through the calculator, never read from a stored aggregate.
func (s *Service) UserTotalFines(userID uint) (int, error) {
	var recs []models.Borrow
	err := s.db.
		Where("user_id = ? AND is_fine_paid = ?", userID, false).
		Find(&recs).Error
	if err != nil {
		return 0, err
	}

	now := s.now()
	total := 0
	for _, rec := range recs {
		total += fines.Compute(rec.DueDate, now, rec.Returned, rec.FineAmount)
	}
	return total, nil
}

func (s *Service) overlay(recs []models.Borrow) []LoanWithFine {
	now := s.now()
	out := make([]LoanWithFine, len(recs))
	for i, rec := range recs {
		out[i] = LoanWithFine{
			Borrow:      rec,
			CurrentFine: fines.Compute(rec.DueDate, now, rec.Returned, rec.FineAmount),
		}
	}
	return out
}
