package domain

import "time"

// Borrowing records one user holding one book for a date range.
// BorrowDate is set at creation and never changes; ActualReturnDate is set
// exactly once by the return operation, after which the record is terminal.
type Borrowing struct {
	ID                 int64      `gorm:"primaryKey" json:"id"`
	BorrowDate         time.Time  `gorm:"type:date;not null" json:"borrow_date"`
	ExpectedReturnDate time.Time  `gorm:"type:date;not null;check:expected_return_date >= borrow_date" json:"expected_return_date"`
	ActualReturnDate   *time.Time `gorm:"type:date" json:"actual_return_date,omitempty"`
	BookID             int64      `gorm:"index;not null" json:"book_id"`
	Book               Book       `gorm:"foreignKey:BookID" json:"book"`
	UserID             int64      `gorm:"index;not null" json:"user_id"`
	User               User       `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Borrowing) TableName() string { return "borrowings" }

func (b *Borrowing) IsActive() bool { return b.ActualReturnDate == nil }

// OverdueDays reports how many whole days past the expected return date the
// borrowing is at the given date. Zero if not overdue.
func (b *Borrowing) OverdueDays(at time.Time) int {
	d := DaysBetween(b.ExpectedReturnDate, at)
	if d < 0 {
		return 0
	}
	return d
}

// DateOnly truncates a timestamp to a UTC calendar date. All borrowing dates
// are stored and compared with day precision.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from one date to
// another, both truncated to days first.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
