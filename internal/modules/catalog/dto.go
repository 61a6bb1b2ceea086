package catalog

import "github.com/shopspring/decimal"

type CreateBookRequest struct {
	Title     string          `json:"title" binding:"required"`
	Author    string          `json:"author"`
	Cover     string          `json:"cover" binding:"omitempty,oneof=HARD SOFT"`
	Inventory int             `json:"inventory" binding:"min=0"`
	DailyFee  decimal.Decimal `json:"daily_fee" binding:"required"`
}

type UpdateBookRequest struct {
	Title     *string          `json:"title"`
	Author    *string          `json:"author"`
	Cover     *string          `json:"cover" binding:"omitempty,oneof=HARD SOFT"`
	Inventory *int             `json:"inventory" binding:"omitempty,min=0"`
	DailyFee  *decimal.Decimal `json:"daily_fee"`
}
