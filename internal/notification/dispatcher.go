package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"libraryservice/internal/domain"
)

// Sender delivers one message to a chat address. Implemented by the telegram
// client; replaced by a mock in tests.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type outbound struct {
	chatID int64
	text   string
}

// Dispatcher fans lifecycle events out to users' chat addresses from a
// background worker. Delivery is fire-and-forget: every failure is logged and
// swallowed so the triggering business operation never rolls back because of
// a notification.
type Dispatcher struct {
	sender  Sender
	loggerf func(format string, args ...interface{})
	queue   chan outbound
	done    chan struct{}
}

func NewDispatcher(sender Sender, loggerf func(format string, args ...interface{})) *Dispatcher {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	d := &Dispatcher{
		sender:  sender,
		loggerf: loggerf,
		queue:   make(chan outbound, 256),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.sender.SendMessage(ctx, m.chatID, m.text); err != nil {
			d.loggerf("level=error msg=notification delivery failed chat_id=%d err=%v", m.chatID, err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) enqueue(u *domain.User, text string) {
	if u == nil || u.TelegramChatID == nil {
		d.loggerf("level=info msg=notification skipped reason=no_chat_address")
		return
	}
	select {
	case d.queue <- outbound{chatID: *u.TelegramChatID, text: text}:
	default:
		d.loggerf("level=error msg=notification dropped reason=queue_full chat_id=%d", *u.TelegramChatID)
	}
}

func (d *Dispatcher) BorrowingCreated(b *domain.Borrowing) {
	d.enqueue(&b.User, fmt.Sprintf(
		"New borrowing created:\nBook: %s\nAuthor: %s\nDue date: %s",
		b.Book.Title, b.Book.Author, b.ExpectedReturnDate.Format("2006-01-02"),
	))
}

func (d *Dispatcher) FineIssued(b *domain.Borrowing, amount decimal.Decimal) {
	d.enqueue(&b.User, fmt.Sprintf(
		"You have a fine of %s for returning the book late.\nBook: %s",
		amount.StringFixed(2), b.Book.Title,
	))
}

func (d *Dispatcher) PaymentSuccessful(p *domain.Payment) {
	d.enqueue(&p.Borrowing.User, fmt.Sprintf(
		"Payment successful!\nBook: %s\nAmount: %s",
		p.Borrowing.Book.Title, p.MoneyToPay.StringFixed(2),
	))
}

func (d *Dispatcher) PaymentCanceled(p *domain.Payment) {
	d.enqueue(&p.Borrowing.User,
		"Payment can be completed within 24 hours.\nBook: "+p.Borrowing.Book.Title)
}

func (d *Dispatcher) PendingPaymentReminder(u *domain.User) {
	d.enqueue(u, "You have a pending payment. Please settle it before borrowing a new book.")
}

func (d *Dispatcher) NewBookAdded(book *domain.Book, users []domain.User) {
	text := fmt.Sprintf("New book added: %s by %s. Price: $%s",
		book.Title, book.Author, book.DailyFee.StringFixed(2))
	for i := range users {
		d.enqueue(&users[i], text)
	}
}
