package borrowing

type CreateBorrowingRequest struct {
	BookID             int64  `json:"book_id" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required"` // YYYY-MM-DD
}

type ReturnBorrowingRequest struct {
	ActualReturnDate string `json:"actual_return_date"` // YYYY-MM-DD, defaults to today
}
