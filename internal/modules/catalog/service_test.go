package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryservice/internal/domain"
)

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserLister struct {
	mock.Mock
}

func (m *MockUserLister) ListLinked(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NewBookAdded(book *domain.Book, users []domain.User) {
	m.Called(book, users)
}

func TestCreateBook_DefaultsAndBroadcast(t *testing.T) {
	books := new(MockBookRepository)
	users := new(MockUserLister)
	notifs := new(MockNotifier)

	chat := int64(42)
	audience := []domain.User{{ID: 1, TelegramChatID: &chat}}

	books.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("ListLinked", mock.Anything).Return(audience, nil)
	notifs.On("NewBookAdded", mock.Anything, audience).Return()

	service := NewService(books, users, notifs, nil)

	b, err := service.Create(context.Background(), CreateBookRequest{
		Title:     "Dune",
		Inventory: 3,
		DailyFee:  decimal.RequireFromString("1.50"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Unknown Author", b.Author)
	assert.Equal(t, domain.CoverHard, b.Cover)
	notifs.AssertCalled(t, "NewBookAdded", mock.Anything, audience)
}

func TestCreateBook_AudienceLookupFailureOnlyCostsBroadcast(t *testing.T) {
	books := new(MockBookRepository)
	users := new(MockUserLister)
	notifs := new(MockNotifier)

	books.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("ListLinked", mock.Anything).Return(nil, errors.New("db down"))

	service := NewService(books, users, notifs, nil)

	b, err := service.Create(context.Background(), CreateBookRequest{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Cover:    "SOFT",
		DailyFee: decimal.RequireFromString("1.50"),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(999), b.ID)
	notifs.AssertNotCalled(t, "NewBookAdded", mock.Anything, mock.Anything)
}

func TestUpdateBook_PartialUpdate(t *testing.T) {
	books := new(MockBookRepository)
	users := new(MockUserLister)

	existing := &domain.Book{
		ID:        5,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Cover:     domain.CoverHard,
		Inventory: 3,
		DailyFee:  decimal.RequireFromString("1.50"),
	}
	books.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	books.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := NewService(books, users, nil, nil)

	inv := 7
	b, err := service.Update(context.Background(), 5, UpdateBookRequest{Inventory: &inv})

	assert.NoError(t, err)
	assert.Equal(t, 7, b.Inventory)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Frank Herbert", b.Author)
}
