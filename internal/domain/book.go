package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CoverType string

const (
	CoverHard CoverType = "HARD"
	CoverSoft CoverType = "SOFT"
)

// Book is one title in the catalog. Inventory counts available copies and
// is only ever changed by borrow (-1) and return (+1).
type Book struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"type:varchar(255);not null;index" json:"title"`
	Author    string          `gorm:"type:varchar(255);not null;default:'Unknown Author'" json:"author"`
	Cover     CoverType       `gorm:"type:varchar(4);not null;default:'HARD'" json:"cover"`
	Inventory int             `gorm:"not null;check:inventory >= 0" json:"inventory"`
	DailyFee  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"daily_fee"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Book) TableName() string { return "books" }
