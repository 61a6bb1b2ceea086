package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

type PaymentType string

const (
	TypePayment PaymentType = "PAYMENT"
	TypeFine    PaymentType = "FINE"
)

// FineMultiplier scales the per-day fee for overdue returns.
var FineMultiplier = decimal.NewFromInt(2)

// Payment is a handle to an externally hosted checkout session for one
// borrowing. The only permitted transition is PENDING -> PAID.
type Payment struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Status      PaymentStatus   `gorm:"type:varchar(7);not null;default:'PENDING';index" json:"status"`
	Type        PaymentType     `gorm:"column:payment_type;type:varchar(7);not null;default:'PAYMENT'" json:"payment_type"`
	BorrowingID int64           `gorm:"index;not null" json:"borrowing_id"`
	Borrowing   Borrowing       `gorm:"foreignKey:BorrowingID" json:"-"`
	SessionURL  string          `gorm:"type:varchar(500)" json:"session_url"`
	SessionID   string          `gorm:"type:varchar(255);uniqueIndex" json:"session_id"`
	MoneyToPay  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"money_to_pay"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// MinorUnits converts a currency-unit amount to minor units (cents).
// This is the single place where the convention changes; everything else
// carries decimal currency units.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
