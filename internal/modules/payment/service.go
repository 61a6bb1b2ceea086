package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"libraryservice/internal/domain"
)

// Service prices borrowings, creates checkout sessions with the external
// processor, and reconciles payment status from gateway callbacks.
type Service struct {
	db      *gorm.DB
	gateway CheckoutGateway
	notifs  Notifier
	loggerf func(format string, args ...interface{})

	successURL string
	cancelURL  string
}

func NewService(db *gorm.DB, gateway CheckoutGateway, notifs Notifier, loggerf func(format string, args ...interface{}), successURL, cancelURL string) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		db:         db,
		gateway:    gateway,
		notifs:     notifs,
		loggerf:    loggerf,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// PriceFor computes the amount owed for a borrowing. PAYMENT covers the
// expected rental window; FINE covers overdue days at the doubled daily fee
// and requires the actual return date to be set.
func (s *Service) PriceFor(b *domain.Borrowing, kind domain.PaymentType) (decimal.Decimal, error) {
	switch kind {
	case domain.TypePayment:
		days := domain.DaysBetween(b.BorrowDate, b.ExpectedReturnDate)
		return b.Book.DailyFee.Mul(decimal.NewFromInt(int64(days))), nil
	case domain.TypeFine:
		if b.ActualReturnDate == nil {
			return decimal.Zero, ErrNotYetDetermined
		}
		days := domain.DaysBetween(b.ExpectedReturnDate, *b.ActualReturnDate)
		return b.Book.DailyFee.
			Mul(decimal.NewFromInt(int64(days))).
			Mul(domain.FineMultiplier), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown payment type %q", kind)
	}
}

// CreateSession requests a hosted checkout session and persists the PENDING
// payment through tx. It runs inside the caller's transaction so that a
// gateway failure rolls the whole business operation back.
func (s *Service) CreateSession(ctx context.Context, tx *gorm.DB, b *domain.Borrowing, kind domain.PaymentType) (*domain.Payment, error) {
	amount, err := s.PriceFor(b, kind)
	if err != nil {
		return nil, err
	}

	sess, err := s.gateway.CreateSession(ctx, CheckoutRequest{
		ProductName:    b.Book.Title,
		AmountMinor:    domain.MinorUnits(amount),
		SuccessURL:     s.successURL,
		CancelURL:      s.cancelURL,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	p := &domain.Payment{
		Status:      domain.PaymentPending,
		Type:        kind,
		BorrowingID: b.ID,
		SessionURL:  sess.URL,
		SessionID:   sess.ID,
		MoneyToPay:  amount,
	}
	if err := tx.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// HasPendingForUser reports whether any of the user's payments is still
// PENDING. Such users are blocked from new borrowings.
func (s *Service) HasPendingForUser(ctx context.Context, userID int64) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&domain.Payment{}).
		Joins("JOIN borrowings ON borrowings.id = payments.borrowing_id").
		Where("borrowings.user_id = ? AND payments.status = ?", userID, domain.PaymentPending).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *Service) getBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	var p domain.Payment
	err := s.db.WithContext(ctx).
		Preload("Borrowing.Book").Preload("Borrowing.User").
		Where("session_id = ?", sessionID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}
	return &p, nil
}

// MarkPaid transitions the payment PENDING -> PAID. Re-marking an already
// paid session is a no-op, not an error; the returned flag says whether this
// call made the change.
func (s *Service) MarkPaid(ctx context.Context, sessionID string) (*domain.Payment, bool, error) {
	p, err := s.getBySessionID(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	res := s.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("session_id = ? AND status = ?", sessionID, domain.PaymentPending).
		Update("status", domain.PaymentPaid)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		s.loggerf("level=info msg=idempotent callback already paid session_id=%s", sessionID)
		return p, false, nil
	}

	p.Status = domain.PaymentPaid
	if s.notifs != nil {
		s.notifs.PaymentSuccessful(p)
	}
	return p, true, nil
}

// ConfirmSuccess handles the success callback: the session is re-fetched from
// the gateway and only a confirmed "paid" status flips the payment.
func (s *Service) ConfirmSuccess(ctx context.Context, sessionID string) (*domain.Payment, error) {
	st, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if st.PaymentStatus != "paid" {
		return nil, ErrSessionNotPaid
	}
	p, _, err := s.MarkPaid(ctx, sessionID)
	return p, err
}

// MarkCanceled acknowledges a cancellation callback. No state changes; the
// user is told the session stays payable.
func (s *Service) MarkCanceled(ctx context.Context, sessionID string) {
	p, err := s.getBySessionID(ctx, sessionID)
	if err != nil {
		s.loggerf("level=info msg=cancel callback for unknown session session_id=%s err=%v", sessionID, err)
		return
	}
	s.loggerf("level=info msg=payment canceled by user session_id=%s payment_id=%d", sessionID, p.ID)
	if s.notifs != nil {
		s.notifs.PaymentCanceled(p)
	}
}

// List returns payments visible to the requester: staff see everything,
// members only their own.
func (s *Service) List(ctx context.Context, requesterID int64, isStaff bool) ([]domain.Payment, error) {
	q := s.db.WithContext(ctx).Preload("Borrowing.Book").Preload("Borrowing.User")
	if !isStaff {
		q = q.Joins("JOIN borrowings ON borrowings.id = payments.borrowing_id").
			Where("borrowings.user_id = ?", requesterID)
	}
	var out []domain.Payment
	if err := q.Order("payments.created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one payment, hiding other users' payments from non-staff.
func (s *Service) GetByID(ctx context.Context, id, requesterID int64, isStaff bool) (*domain.Payment, error) {
	var p domain.Payment
	err := s.db.WithContext(ctx).
		Preload("Borrowing.Book").Preload("Borrowing.User").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	if !isStaff && p.Borrowing.UserID != requesterID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}
