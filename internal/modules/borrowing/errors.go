package borrowing

import "errors"

var (
	ErrBookUnavailable = errors.New("book is out of stock")
	ErrInvalidDate     = errors.New("date violates borrowing invariants")
	ErrAlreadyReturned = errors.New("borrowing already returned")
	ErrPendingPayment  = errors.New("user has a pending payment")
)
