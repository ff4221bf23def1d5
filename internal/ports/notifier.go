package ports

import (
	"context"
	"errors"

	"github.com/seu-repo/quest-board/internal/domain"
)

// ErrAlreadyEarned marks a duplicate user achievement insert.
var ErrAlreadyEarned = errors.New("achievement already earned")

// Notifier delivers user-facing notifications. Delivery failures are logged
// by implementations and never abort the calling operation.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// BoardPublisher broadcasts committed board state to live subscribers.
type BoardPublisher interface {
	PublishBoard(ctx context.Context, ev domain.BoardEvent)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
