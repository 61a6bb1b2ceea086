package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"libraryservice/internal/domain"
)

type stubGateway struct {
	createErr   error
	status      string
	retrieveErr error

	lastRequest CheckoutRequest
	createCalls int
}

func (g *stubGateway) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	g.createCalls++
	g.lastRequest = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	id := fmt.Sprintf("cs_test_%d", g.createCalls)
	return &CheckoutSession{ID: id, URL: "https://checkout.test/" + id}, nil
}

func (g *stubGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return &SessionStatus{ID: sessionID, PaymentStatus: g.status}, nil
}

type stubNotifier struct {
	successful int
	canceled   int
}

func (n *stubNotifier) PaymentSuccessful(p *domain.Payment) { n.successful++ }
func (n *stubNotifier) PaymentCanceled(p *domain.Payment)   { n.canceled++ }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.Borrowing{}, &domain.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBorrowing(t *testing.T, db *gorm.DB, dailyFee string, overdueDays int) *domain.Borrowing {
	t.Helper()
	fee := decimal.RequireFromString(dailyFee)

	user := &domain.User{Email: "reader@example.com", PasswordHash: "x", FirstName: "Test", LastName: "Reader"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	book := &domain.Book{Title: "Dune", Author: "Frank Herbert", Cover: domain.CoverHard, Inventory: 1, DailyFee: fee}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}

	today := domain.DateOnly(time.Now())
	b := &domain.Borrowing{
		BorrowDate:         today.AddDate(0, 0, -7-overdueDays),
		ExpectedReturnDate: today.AddDate(0, 0, -overdueDays),
		BookID:             book.ID,
		UserID:             user.ID,
	}
	if overdueDays > 0 {
		b.ActualReturnDate = &today
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed borrowing: %v", err)
	}
	b.Book = *book
	b.User = *user
	return b
}

func TestPriceFor_RentalWindow(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, &stubGateway{}, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "3.00", 0)

	got, err := svc.PriceFor(b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("21")) {
		t.Fatalf("expected 21, got %s", got)
	}
}

func TestPriceFor_Fine(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, &stubGateway{}, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "3.00", 3)

	got, err := svc.PriceFor(b, domain.TypeFine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 days late * 3.00 * the overdue multiplier.
	if !got.Equal(decimal.RequireFromString("18")) {
		t.Fatalf("expected 18, got %s", got)
	}
}

func TestPriceFor_FineBeforeReturn(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, &stubGateway{}, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "3.00", 0)
	b.ActualReturnDate = nil

	_, err := svc.PriceFor(b, domain.TypeFine)
	if !errors.Is(err, ErrNotYetDetermined) {
		t.Fatalf("expected ErrNotYetDetermined, got %v", err)
	}
}

func TestCreateSession_PersistsPendingPayment(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{}
	svc := NewService(db, gw, nil, nil, "https://app.test/success", "https://app.test/cancel")
	b := seedBorrowing(t, db, "1.50", 0)

	p, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.PaymentPending || p.Type != domain.TypePayment {
		t.Fatalf("unexpected payment state: %+v", p)
	}
	// 7 days * 1.50 = 10.50, sent to the gateway in minor units.
	if gw.lastRequest.AmountMinor != 1050 {
		t.Fatalf("expected 1050 minor units, got %d", gw.lastRequest.AmountMinor)
	}
	if gw.lastRequest.ProductName != "Dune" {
		t.Fatalf("expected product name from the book title, got %q", gw.lastRequest.ProductName)
	}
	if gw.lastRequest.IdempotencyKey == "" {
		t.Fatal("expected an idempotency key")
	}

	var stored domain.Payment
	if err := db.Where("session_id = ?", p.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("payment row not persisted: %v", err)
	}
}

func TestCreateSession_GatewayError(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{createErr: errors.New("processor down")}
	svc := NewService(db, gw, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "1.50", 0)

	_, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}

	var count int64
	db.Model(&domain.Payment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no payment rows, got %d", count)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	db := testDB(t)
	notifs := &stubNotifier{}
	svc := NewService(db, &stubGateway{}, notifs, nil, "s", "c")
	b := seedBorrowing(t, db, "1.50", 0)

	p, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, changed, err := svc.MarkPaid(context.Background(), p.SessionID)
	if err != nil || !changed {
		t.Fatalf("expected first callback to flip the payment, changed=%v err=%v", changed, err)
	}
	if got.Status != domain.PaymentPaid {
		t.Fatalf("expected PAID, got %s", got.Status)
	}

	// Replayed callback is a no-op.
	got, changed, err = svc.MarkPaid(context.Background(), p.SessionID)
	if err != nil || changed {
		t.Fatalf("expected replay to be a no-op, changed=%v err=%v", changed, err)
	}
	if got.Status != domain.PaymentPaid {
		t.Fatalf("expected PAID after replay, got %s", got.Status)
	}
	if notifs.successful != 1 {
		t.Fatalf("expected exactly one success notification, got %d", notifs.successful)
	}
}

func TestMarkPaid_UnknownSession(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, &stubGateway{}, nil, nil, "s", "c")

	_, _, err := svc.MarkPaid(context.Background(), "cs_missing")
	if !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestConfirmSuccess_SessionNotPaid(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{status: "unpaid"}
	svc := NewService(db, gw, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "1.50", 0)

	p, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ConfirmSuccess(context.Background(), p.SessionID)
	if !errors.Is(err, ErrSessionNotPaid) {
		t.Fatalf("expected ErrSessionNotPaid, got %v", err)
	}

	var stored domain.Payment
	if err := db.Where("session_id = ?", p.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if stored.Status != domain.PaymentPending {
		t.Fatalf("expected payment to stay PENDING, got %s", stored.Status)
	}
}

func TestMarkCanceled(t *testing.T) {
	db := testDB(t)
	notifs := &stubNotifier{}
	svc := NewService(db, &stubGateway{}, notifs, nil, "s", "c")
	b := seedBorrowing(t, db, "1.50", 0)

	p, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.MarkCanceled(context.Background(), p.SessionID)
	if notifs.canceled != 1 {
		t.Fatalf("expected one cancel notification, got %d", notifs.canceled)
	}

	// Unknown sessions are logged, never notified.
	svc.MarkCanceled(context.Background(), "cs_missing")
	if notifs.canceled != 1 {
		t.Fatalf("expected no notification for unknown session, got %d", notifs.canceled)
	}

	var stored domain.Payment
	if err := db.Where("session_id = ?", p.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if stored.Status != domain.PaymentPending {
		t.Fatalf("cancel must not change status, got %s", stored.Status)
	}
}

func TestGetByID_HiddenFromOtherUsers(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, &stubGateway{}, nil, nil, "s", "c")
	b := seedBorrowing(t, db, "1.50", 0)

	p, err := svc.CreateSession(context.Background(), db, b, domain.TypePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), p.ID, b.UserID+1, false); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for stranger, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID, b.UserID+1, true); err != nil {
		t.Fatalf("staff should see any payment: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID, b.UserID, false); err != nil {
		t.Fatalf("owner should see own payment: %v", err)
	}
}
