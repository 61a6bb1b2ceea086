package catalog

import (
	"context"

	"libraryservice/internal/domain"
)

type Service struct {
	books   BookRepository
	users   LinkedUserLister
	notifs  Notifier
	loggerf func(format string, args ...interface{})
}

func NewService(books BookRepository, users LinkedUserLister, notifs Notifier, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{books: books, users: users, notifs: notifs, loggerf: loggerf}
}

func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	b := &domain.Book{
		Title:     req.Title,
		Author:    req.Author,
		Cover:     domain.CoverType(req.Cover),
		Inventory: req.Inventory,
		DailyFee:  req.DailyFee,
	}
	if b.Author == "" {
		b.Author = "Unknown Author"
	}
	if b.Cover == "" {
		b.Cover = domain.CoverHard
	}

	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}

	// broadcast to every linked user; lookup failure only costs the broadcast
	if s.notifs != nil {
		users, err := s.users.ListLinked(ctx)
		if err != nil {
			s.loggerf("level=error msg=failed to list broadcast audience err=%v", err)
		} else {
			s.notifs.NewBookAdded(b, users)
		}
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBookRequest) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Cover != nil {
		b.Cover = domain.CoverType(*req.Cover)
	}
	if req.Inventory != nil {
		b.Inventory = *req.Inventory
	}
	if req.DailyFee != nil {
		b.DailyFee = *req.DailyFee
	}

	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.books.Delete(ctx, id)
}
