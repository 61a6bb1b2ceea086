package telegram

import (
	"context"
	"strings"
	"time"

	"libraryservice/internal/domain"
	"libraryservice/internal/notification"
)

type UserStore interface {
	FindByProfile(ctx context.Context, email, firstName, lastName string) (*domain.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.User, error)
	SetTelegramChatID(ctx context.Context, userID, chatID int64) error
}

type BorrowingStore interface {
	ListOpen(ctx context.Context) ([]domain.Borrowing, error)
	ListOverdue(ctx context.Context, today time.Time) ([]domain.Borrowing, error)
	ListUpcoming(ctx context.Context, today time.Time) ([]domain.Borrowing, error)
}

// Bot long-polls the Telegram API, runs the chat-linking conversation, and
// answers the borrowing commands.
type Bot struct {
	client        *Client
	users         UserStore
	borrowings    BorrowingStore
	conversations map[int64]*conversation
	loggerf       func(format string, args ...interface{})
}

func NewBot(client *Client, users UserStore, borrowings BorrowingStore, loggerf func(format string, args ...interface{})) *Bot {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Bot{
		client:        client,
		users:         users,
		borrowings:    borrowings,
		conversations: make(map[int64]*conversation),
		loggerf:       loggerf,
	}
}

// Run polls until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, 30)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.loggerf("level=error msg=get updates failed err=%v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			b.HandleMessage(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

// HandleMessage dispatches one incoming message. Exported for tests; Run is
// just the polling loop around it.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)

	switch {
	case text == "/start":
		b.conversations[chatID] = &conversation{state: stateAwaitEmail}
		b.reply(ctx, chatID, "Hello! Please send me your email to receive notifications.")
	case text == "/all_borrow":
		b.handleAllBorrowings(ctx, chatID)
	case text == "/overdue_borrow":
		b.handleOverdueBorrowings(ctx, chatID)
	case text == "/upcoming_borrow":
		b.handleUpcomingBorrowings(ctx, chatID)
	case strings.HasPrefix(text, "/"):
		b.reply(ctx, chatID, "Unknown command.")
	default:
		b.handleConversation(ctx, chatID, text)
	}
}

func (b *Bot) handleConversation(ctx context.Context, chatID int64, text string) {
	conv, ok := b.conversations[chatID]
	if !ok {
		b.reply(ctx, chatID, "Send /start to link your account.")
		return
	}

	reply, done := conv.advance(text)
	if !done {
		b.reply(ctx, chatID, reply)
		return
	}
	delete(b.conversations, chatID)

	user, err := b.users.FindByProfile(ctx, conv.email, conv.firstName, conv.lastName)
	if err != nil {
		b.loggerf("level=info msg=link attempt failed email=%s err=%v", conv.email, err)
		b.reply(ctx, chatID, "Sorry, I couldn't find that user.")
		return
	}
	if err := b.users.SetTelegramChatID(ctx, user.ID, chatID); err != nil {
		b.loggerf("level=error msg=failed to save chat id user_id=%d err=%v", user.ID, err)
		b.reply(ctx, chatID, "Something went wrong, please try again later.")
		return
	}
	b.reply(ctx, chatID, "Thank you! Your chat ID has been saved.")
}

func (b *Bot) handleAllBorrowings(ctx context.Context, chatID int64) {
	user, err := b.users.GetByTelegramChatID(ctx, chatID)
	if err != nil || !user.IsStaff {
		b.reply(ctx, chatID, "Access denied. You are not an admin.")
		return
	}

	open, err := b.borrowings.ListOpen(ctx)
	if err != nil {
		b.loggerf("level=error msg=failed to list open borrowings err=%v", err)
		b.reply(ctx, chatID, "Something went wrong, please try again later.")
		return
	}
	b.reply(ctx, chatID, notification.AllBorrowingsDigest(open))
}

func (b *Bot) handleOverdueBorrowings(ctx context.Context, chatID int64) {
	today := time.Now()
	overdue, err := b.borrowings.ListOverdue(ctx, today)
	if err != nil {
		b.loggerf("level=error msg=failed to list overdue borrowings err=%v", err)
		b.reply(ctx, chatID, "Something went wrong, please try again later.")
		return
	}

	reminders := notification.OverdueReminders(overdue, today)
	if len(reminders) == 0 {
		b.reply(ctx, chatID, "No borrowings overdue today!")
		return
	}
	texts := make([]string, 0, len(reminders))
	for _, r := range reminders {
		texts = append(texts, r.Text)
	}
	b.reply(ctx, chatID, strings.Join(texts, "\n\n"))
}

func (b *Bot) handleUpcomingBorrowings(ctx context.Context, chatID int64) {
	user, err := b.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		b.reply(ctx, chatID, "User not found. Please register first.")
		return
	}

	upcoming, err := b.borrowings.ListUpcoming(ctx, time.Now())
	if err != nil {
		b.loggerf("level=error msg=failed to list upcoming borrowings err=%v", err)
		b.reply(ctx, chatID, "Something went wrong, please try again later.")
		return
	}

	for _, r := range notification.UpcomingDueReminders(upcoming) {
		if r.User.ID == user.ID {
			b.reply(ctx, chatID, r.Text)
			return
		}
	}
	b.reply(ctx, chatID, "You have no upcoming borrowings.")
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		b.loggerf("level=error msg=failed to send reply chat_id=%d err=%v", chatID, err)
	}
}
