package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"libraryservice/internal/domain"
)

// Reminder pairs a user with the text to send them. The scheduler that calls
// these jobs is external; each function is pure so it can run anywhere rows
// can be fetched.
type Reminder struct {
	User domain.User
	Text string
}

// AllBorrowingsDigest renders the staff digest of every open borrowing.
func AllBorrowingsDigest(borrowings []domain.Borrowing) string {
	var sb strings.Builder
	sb.WriteString("All borrowings:\n")
	if len(borrowings) == 0 {
		sb.WriteString("No borrowings found in the database.")
		return sb.String()
	}
	for _, b := range borrowings {
		fmt.Fprintf(&sb, "User: %s, Book: %s, Due date: %s\n",
			b.User.Email, b.Book.Title, b.ExpectedReturnDate.Format("2006-01-02"))
	}
	return sb.String()
}

// OverdueReminders builds one reminder per overdue borrowing, disclosing the
// fine that has accrued so far.
func OverdueReminders(borrowings []domain.Borrowing, today time.Time) []Reminder {
	out := make([]Reminder, 0, len(borrowings))
	for _, b := range borrowings {
		if !b.IsActive() {
			continue
		}
		days := b.OverdueDays(today)
		text := fmt.Sprintf(
			"Reminder: Your borrowing is overdue!\nBook: %s\nAuthor: %s\nDue date: %s",
			b.Book.Title, b.Book.Author, b.ExpectedReturnDate.Format("2006-01-02"))
		if days > 0 {
			fine := b.Book.DailyFee.
				Mul(domain.FineMultiplier).
				Mul(decimal.NewFromInt(int64(days)))
			text += fmt.Sprintf("\nAccrued fine: %s", fine.StringFixed(2))
		}
		out = append(out, Reminder{User: b.User, Text: text})
	}
	return out
}

// UpcomingDueReminders picks each user's nearest upcoming due date from open
// borrowings (assumed sorted by expected return date ascending) and builds
// one reminder per user.
func UpcomingDueReminders(borrowings []domain.Borrowing) []Reminder {
	seen := make(map[int64]bool)
	out := make([]Reminder, 0)
	for _, b := range borrowings {
		if !b.IsActive() || seen[b.UserID] {
			continue
		}
		seen[b.UserID] = true
		out = append(out, Reminder{
			User: b.User,
			Text: fmt.Sprintf(
				"Upcoming borrowing reminder:\nBook: %s\nAuthor: %s\nDue date: %s",
				b.Book.Title, b.Book.Author, b.ExpectedReturnDate.Format("2006-01-02")),
		})
	}
	return out
}
