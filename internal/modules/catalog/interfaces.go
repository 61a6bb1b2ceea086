package catalog

import (
	"context"

	"libraryservice/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id int64) error
}

// LinkedUserLister yields the audience for new-book broadcasts.
type LinkedUserLister interface {
	ListLinked(ctx context.Context) ([]domain.User, error)
}

type Notifier interface {
	NewBookAdded(book *domain.Book, users []domain.User)
}
