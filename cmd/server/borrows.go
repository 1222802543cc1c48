package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"elibrary/pkg/auth"
	"elibrary/pkg/lending"
)

func borrowBook(c *gin.Context) {
	claims := auth.CurrentUser(c)
	bookID, err := parseID(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid book id"})
		return
	}

	rec, err := loans.Borrow(claims.UserID, bookID)
	if err != nil {
		c.JSON(lendingStatus(err), gin.H{"message": lendingMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book issued successfully",
		"borrow":  borrowResponse(lending.LoanWithFine{Borrow: *rec}),
	})
}

func requestReturn(c *gin.Context) {
	claims := auth.CurrentUser(c)
	borrowID, err := parseID(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid borrow id"})
		return
	}

	if err := loans.RequestReturn(claims.UserID, borrowID); err != nil {
		c.JSON(lendingStatus(err), gin.H{"message": lendingMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Return request submitted to admin"})
}

func confirmReturn(c *gin.Context) {
	borrowID, err := parseID(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid borrow id"})
		return
	}

	rec, err := loans.ConfirmReturn(borrowID)
	if err != nil {
		c.JSON(lendingStatus(err), gin.H{"message": lendingMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Return confirmed",
		"fine":    rec.FineAmount,
	})
}

func payFine(c *gin.Context) {
	claims := auth.CurrentUser(c)
	borrowID, err := parseID(c.Param("borrowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid borrow id"})
		return
	}

	amount, err := loans.PayFine(claims.UserID, borrowID)
	if err != nil {
		c.JSON(lendingStatus(err), gin.H{"message": lendingMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Fine paid successfully",
		"fineAmount": amount,
	})
}

func getMyBorrowedBooks(c *gin.Context) {
	claims := auth.CurrentUser(c)

	records, err := loans.MyLoans(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch borrowed books"})
		return
	}

	items := make([]gin.H, len(records))
	for i, rec := range records {
		items[i] = borrowResponse(rec)
	}
	c.JSON(http.StatusOK, items)
}

func getMyFines(c *gin.Context) {
	claims := auth.CurrentUser(c)

	records, err := loans.MyFines(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch fines"})
		return
	}

	total := 0
	items := make([]gin.H, len(records))
	for i, rec := range records {
		items[i] = borrowResponse(rec)
		total += rec.CurrentFine
	}
	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"totalFine": total,
	})
}

func getAllBorrowedBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := lending.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	switch c.Query("hasFine") {
	case "true":
		v := true
		filter.HasFine = &v
	case "false":
		v := false
		filter.HasFine = &v
	}

	result, err := loans.AllLoans(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch borrowed books"})
		return
	}

	items := make([]gin.H, len(result.Items))
	for i, rec := range result.Items {
		item := borrowResponse(rec)
		item["user"] = gin.H{
			"id":    rec.User.ID,
			"name":  rec.User.Name,
			"email": rec.User.Email,
		}
		items[i] = item
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total":      result.Total,
			"page":       result.Page,
			"limit":      result.Limit,
			"totalPages": result.TotalPages,
		},
	})
}

func borrowResponse(rec lending.LoanWithFine) gin.H {
	item := gin.H{
		"id":              rec.ID,
		"borrowUid":       rec.BorrowUid,
		"bookId":          rec.BookID,
		"borrowDate":      rec.BorrowDate.Format("2006-01-02"),
		"dueDate":         rec.DueDate.Format("2006-01-02"),
		"returned":        rec.Returned,
		"returnRequested": rec.ReturnRequested,
		"fineAmount":      rec.CurrentFine,
		"isFinePaid":      rec.IsFinePaid,
	}
	if rec.ReturnDate != nil {
		item["returnDate"] = rec.ReturnDate.Format("2006-01-02")
	}
	if rec.Book.ID != 0 {
		item["book"] = gin.H{
			"id":         rec.Book.ID,
			"title":      rec.Book.Title,
			"author":     rec.Book.Author,
			"coverImage": rec.Book.CoverImage,
		}
	}
	return item
}

func lendingStatus(err error) int {
	switch {
	case errors.Is(err, lending.ErrBookNotFound),
		errors.Is(err, lending.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, lending.ErrAlreadyBorrowed),
		errors.Is(err, lending.ErrReturnAlreadyRequested):
		return http.StatusConflict
	case errors.Is(err, lending.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, lending.ErrOutOfStock),
		errors.Is(err, lending.ErrNoFineDue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func lendingMessage(err error) string {
	if lendingStatus(err) == http.StatusInternalServerError {
		return "Operation failed"
	}
	return err.Error()
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
