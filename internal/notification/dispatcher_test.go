package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryservice/internal/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	err  error
	sent []outbound
}

func (s *recordingSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, outbound{chatID: chatID, text: text})
	return s.err
}

func (s *recordingSender) messages() []outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]outbound(nil), s.sent...)
}

func linkedUser(chatID int64) domain.User {
	return domain.User{
		ID:             1,
		Email:          "reader@example.com",
		FirstName:      "Test",
		LastName:       "Reader",
		TelegramChatID: &chatID,
	}
}

func sampleBorrowing(u domain.User) *domain.Borrowing {
	return &domain.Borrowing{
		ID:                 10,
		BorrowDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedReturnDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Book: domain.Book{
			Title:    "Dune",
			Author:   "Frank Herbert",
			DailyFee: decimal.RequireFromString("1.50"),
		},
		User: u,
	}
}

func TestDispatcher_BorrowingCreated(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil)

	d.BorrowingCreated(sampleBorrowing(linkedUser(42)))
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(42), msgs[0].chatID)
	assert.Equal(t, "New borrowing created:\nBook: Dune\nAuthor: Frank Herbert\nDue date: 2026-03-08", msgs[0].text)
}

func TestDispatcher_SkipsUnlinkedUsers(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil)

	b := sampleBorrowing(domain.User{ID: 2, Email: "nolink@example.com"})
	d.BorrowingCreated(b)
	d.FineIssued(b, decimal.RequireFromString("18"))
	d.Close()

	assert.Empty(t, sender.messages())
}

func TestDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	var logged int
	sender := &recordingSender{err: errors.New("telegram down")}
	d := NewDispatcher(sender, func(string, ...interface{}) { logged++ })

	d.PendingPaymentReminder(ptrUser(linkedUser(7)))
	d.FineIssued(sampleBorrowing(linkedUser(7)), decimal.RequireFromString("18"))
	d.Close()

	// Both messages were attempted and both failures only logged.
	assert.Len(t, sender.messages(), 2)
	assert.Equal(t, 2, logged)
}

func TestDispatcher_NewBookAddedFansOut(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil)

	chat1, chat2 := int64(100), int64(200)
	users := []domain.User{
		{ID: 1, TelegramChatID: &chat1},
		{ID: 2, TelegramChatID: &chat2},
		{ID: 3}, // not linked
	}
	book := &domain.Book{Title: "Dune", Author: "Frank Herbert", DailyFee: decimal.RequireFromString("1.50")}
	d.NewBookAdded(book, users)
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "New book added: Dune by Frank Herbert. Price: $1.50", msgs[0].text)
}

func TestDispatcher_FineIssuedText(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil)

	d.FineIssued(sampleBorrowing(linkedUser(42)), decimal.RequireFromString("18"))
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "You have a fine of 18.00 for returning the book late.\nBook: Dune", msgs[0].text)
}

func ptrUser(u domain.User) *domain.User { return &u }
