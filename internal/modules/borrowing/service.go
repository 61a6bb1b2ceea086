package borrowing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"libraryservice/internal/domain"
	"libraryservice/internal/repository"
)

// Service is the borrowing lifecycle manager: it creates, lists, and returns
// borrowings, keeping inventory and date invariants intact.
type Service struct {
	db         *gorm.DB
	borrowings BorrowingReader
	payments   PaymentCreator
	notifs     Notifier
}

func NewService(db *gorm.DB, borrowings BorrowingReader, payments PaymentCreator, notifs Notifier) *Service {
	return &Service{
		db:         db,
		borrowings: borrowings,
		payments:   payments,
		notifs:     notifs,
	}
}

type CreateResult struct {
	Borrowing *domain.Borrowing
	Payment   *domain.Payment
}

type ReturnResult struct {
	Borrowing   *domain.Borrowing
	FineApplied bool
	FineAmount  decimal.Decimal
	Payment     *domain.Payment
}

// Create borrows one copy of a book for the user. The inventory decrement,
// the borrowing row, and the checkout session are one transaction; if the
// gateway refuses the session the borrowing never persists.
func (s *Service) Create(ctx context.Context, userID, bookID int64, expectedReturnDate time.Time) (*CreateResult, error) {
	today := domain.DateOnly(time.Now())
	if domain.DateOnly(expectedReturnDate).Before(today) {
		return nil, ErrInvalidDate
	}

	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	pending, err := s.payments.HasPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		if s.notifs != nil {
			s.notifs.PendingPaymentReminder(&user)
		}
		return nil, ErrPendingPayment
	}

	var result CreateResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.DecrementInventory(tx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			var exists int64
			if err := tx.Model(&domain.Book{}).Where("id = ?", bookID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrBookUnavailable
		}

		b := &domain.Borrowing{
			BorrowDate:         today,
			ExpectedReturnDate: domain.DateOnly(expectedReturnDate),
			BookID:             bookID,
			UserID:             userID,
		}
		if err := tx.Create(b).Error; err != nil {
			return translateConstraint(err)
		}
		if err := tx.Preload("Book").Preload("User").First(b, b.ID).Error; err != nil {
			return err
		}

		p, err := s.payments.CreateSession(ctx, tx, b, domain.TypePayment)
		if err != nil {
			return err
		}

		result = CreateResult{Borrowing: b, Payment: p}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.BorrowingCreated(result.Borrowing)
	}
	return &result, nil
}

// Return closes the borrowing: sets the actual return date once, restores
// inventory, and creates a FINE payment when the book comes back late. A
// concurrent second return sees ErrAlreadyReturned from the guarded update.
func (s *Service) Return(ctx context.Context, borrowingID int64, returnDate time.Time) (*ReturnResult, error) {
	day := domain.DateOnly(returnDate)

	var result ReturnResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Borrowing
		if err := tx.Preload("Book").Preload("User").First(&b, borrowingID).Error; err != nil {
			return err
		}
		if b.ActualReturnDate != nil {
			return ErrAlreadyReturned
		}
		if day.Before(domain.DateOnly(b.BorrowDate)) {
			return ErrInvalidDate
		}

		ok, err := repository.MarkReturned(tx, b.ID, day)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReturned
		}
		if err := repository.IncrementInventory(tx, b.BookID); err != nil {
			return err
		}

		b.ActualReturnDate = &day
		result.Borrowing = &b

		if day.After(domain.DateOnly(b.ExpectedReturnDate)) {
			p, err := s.payments.CreateSession(ctx, tx, &b, domain.TypeFine)
			if err != nil {
				return err
			}
			result.FineApplied = true
			result.FineAmount = p.MoneyToPay
			result.Payment = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.FineApplied && s.notifs != nil {
		s.notifs.FineIssued(result.Borrowing, result.FineAmount)
	}
	return &result, nil
}

// List scopes borrowings to the requester: staff may filter by any user,
// everyone else only ever sees their own rows no matter what they ask for.
func (s *Service) List(ctx context.Context, requesterID int64, isStaff bool, isActive *bool, userID *int64) ([]domain.Borrowing, error) {
	f := repository.BorrowingFilter{IsActive: isActive}
	if isStaff {
		f.UserID = userID
	} else {
		own := requesterID
		f.UserID = &own
	}
	return s.borrowings.List(ctx, f)
}

// Get fetches one borrowing, hidden from non-owners unless staff.
func (s *Service) Get(ctx context.Context, id, requesterID int64, isStaff bool) (*domain.Borrowing, error) {
	b, err := s.borrowings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && b.UserID != requesterID {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

// translateConstraint maps Postgres check violations on the borrowing date
// constraints to the business error.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return ErrInvalidDate
	}
	return err
}
