package borrowing

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"libraryservice/internal/domain"
	"libraryservice/internal/repository"
)

// BorrowingReader covers the read side of the lifecycle.
type BorrowingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Borrowing, error)
	List(ctx context.Context, f repository.BorrowingFilter) ([]domain.Borrowing, error)
}

// PaymentCreator is injected at construction; the lifecycle manager never
// reaches into the payment package's persistence itself. CreateSession runs
// inside the caller's transaction so a gateway failure rolls everything back.
type PaymentCreator interface {
	CreateSession(ctx context.Context, tx *gorm.DB, b *domain.Borrowing, kind domain.PaymentType) (*domain.Payment, error)
	HasPendingForUser(ctx context.Context, userID int64) (bool, error)
}

// Notifier consumes lifecycle events after they are committed.
type Notifier interface {
	BorrowingCreated(b *domain.Borrowing)
	FineIssued(b *domain.Borrowing, amount decimal.Decimal)
	PendingPaymentReminder(u *domain.User)
}
