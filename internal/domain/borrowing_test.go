package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 1, 0, 0, time.UTC)

	// time-of-day never matters, only calendar days
	assert.Equal(t, 7, DaysBetween(from, to))
	assert.Equal(t, -7, DaysBetween(to, from))
	assert.Equal(t, 0, DaysBetween(from, from))
}

func TestOverdueDays(t *testing.T) {
	b := Borrowing{ExpectedReturnDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 0, b.OverdueDays(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, b.OverdueDays(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, b.OverdueDays(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1050), MinorUnits(decimal.RequireFromString("10.50")))
	assert.Equal(t, int64(1800), MinorUnits(decimal.RequireFromString("18")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
	// sub-cent amounts round to the nearest cent
	assert.Equal(t, int64(334), MinorUnits(decimal.RequireFromString("3.335")))
}
