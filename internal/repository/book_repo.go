package repository

import (
	"context"

	"gorm.io/gorm"

	"libraryservice/internal/domain"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var b domain.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := r.db.WithContext(ctx).Order("title").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementInventory takes one copy off the shelf. The guard keeps inventory
// from going negative when two borrow attempts race on the last copy; the
// caller must run it inside its transaction.
func DecrementInventory(tx *gorm.DB, bookID int64) (bool, error) {
	res := tx.Model(&domain.Book{}).
		Where("id = ? AND inventory >= 1", bookID).
		UpdateColumn("inventory", gorm.Expr("inventory - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementInventory puts a returned copy back.
func IncrementInventory(tx *gorm.DB, bookID int64) error {
	res := tx.Model(&domain.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("inventory", gorm.Expr("inventory + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
