package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libraryservice/internal/domain"
)

type BorrowingRepository struct {
	db *gorm.DB
}

func NewBorrowingRepository(db *gorm.DB) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

// BorrowingFilter narrows List. IsActive=true selects unreturned rows,
// IsActive=false returned ones; UserID scopes to one borrower.
type BorrowingFilter struct {
	UserID   *int64
	IsActive *bool
}

func (r *BorrowingRepository) GetByID(ctx context.Context, id int64) (*domain.Borrowing, error) {
	var b domain.Borrowing
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowingRepository) List(ctx context.Context, f BorrowingFilter) ([]domain.Borrowing, error) {
	q := r.db.WithContext(ctx).Preload("Book").Preload("User")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.IsActive != nil {
		if *f.IsActive {
			q = q.Where("actual_return_date IS NULL")
		} else {
			q = q.Where("actual_return_date IS NOT NULL")
		}
	}

	var out []domain.Borrowing
	if err := q.Order("borrow_date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOpen returns every borrowing that has not been returned yet.
func (r *BorrowingRepository) ListOpen(ctx context.Context) ([]domain.Borrowing, error) {
	active := true
	return r.List(ctx, BorrowingFilter{IsActive: &active})
}

// ListOverdue returns open borrowings whose expected return date is on or
// before the given day.
func (r *BorrowingRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.Borrowing, error) {
	var out []domain.Borrowing
	err := r.db.WithContext(ctx).
		Preload("Book").Preload("User").
		Where("actual_return_date IS NULL AND expected_return_date <= ?", domain.DateOnly(today)).
		Order("expected_return_date").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListUpcoming returns open borrowings due today or later, soonest first, for
// the nearest-due-date reminder job.
func (r *BorrowingRepository) ListUpcoming(ctx context.Context, today time.Time) ([]domain.Borrowing, error) {
	var out []domain.Borrowing
	err := r.db.WithContext(ctx).
		Preload("Book").Preload("User").
		Where("actual_return_date IS NULL AND expected_return_date >= ?", domain.DateOnly(today)).
		Order("expected_return_date").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReturned sets the return date exactly once. The IS NULL guard makes the
// second of two racing return calls observe zero affected rows.
func MarkReturned(tx *gorm.DB, borrowingID int64, returnDate time.Time) (bool, error) {
	res := tx.Model(&domain.Borrowing{}).
		Where("id = ? AND actual_return_date IS NULL", borrowingID).
		Update("actual_return_date", domain.DateOnly(returnDate))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
