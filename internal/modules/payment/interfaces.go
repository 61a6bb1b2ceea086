package payment

import (
	"context"

	"libraryservice/internal/domain"
)

// CheckoutRequest describes one hosted checkout session to create. Amounts
// cross this boundary in minor currency units.
type CheckoutRequest struct {
	ProductName    string
	AmountMinor    int64
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type SessionStatus struct {
	ID            string
	PaymentStatus string // "paid" once the user completed checkout
}

// CheckoutGateway is the external payment processor.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// Notifier receives payment state changes. Delivery failures are the
// notifier's problem; the service never checks them.
type Notifier interface {
	PaymentSuccessful(p *domain.Payment)
	PaymentCanceled(p *domain.Payment)
}
