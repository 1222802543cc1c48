package lending

import "errors"

// Expected, caller-recoverable failure kinds. Anything else coming out of
// the engine is an infrastructure failure.
var (
	ErrBookNotFound           = errors.New("book not found")
	ErrLoanNotFound           = errors.New("borrow record not found")
	ErrAlreadyBorrowed        = errors.New("book already borrowed")
	ErrReturnAlreadyRequested = errors.New("return already requested")
	ErrOutOfStock             = errors.New("book is out of stock")
	ErrPaymentRequired        = errors.New("overdue fine must be paid before return")
	ErrNoFineDue              = errors.New("no fine to pay")
)
