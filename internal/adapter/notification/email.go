package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/observability/telemetry"
	"github.com/seu-repo/quest-board/internal/ports"
	"github.com/seu-repo/quest-board/pkg/config"
)

const emailTimeout = 10 * time.Second

// SendGridSender delivers plain-text e-mail through SendGrid.
type SendGridSender struct {
	fromEmail string
	fromName  string
	client    *sendgrid.Client
}

var _ ports.EmailSender = (*SendGridSender)(nil)

func NewSendGridSender(cfg config.EmailConfig) *SendGridSender {
	return &SendGridSender{
		fromEmail: cfg.From,
		fromName:  cfg.FromName,
		client:    sendgrid.NewSendClient(cfg.APIKey),
	}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	// SendGrid returns 2xx for success
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// BreakerSender stops calling the mail provider after repeated failures so a
// provider outage does not add the full timeout to every notification.
type BreakerSender struct {
	next ports.EmailSender
	cb   *gobreaker.CircuitBreaker
}

var _ ports.EmailSender = (*BreakerSender)(nil)

func NewBreakerSender(next ports.EmailSender, cfg config.CircuitBreakerConfig, log *zap.Logger) *BreakerSender {
	failures := uint32(cfg.MaxRequests)
	if failures == 0 {
		failures = 5
	}
	return &BreakerSender{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "email",
			Interval: cfg.Interval,
			Timeout:  cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

func (b *BreakerSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, to, subject, body)
	})
	return err
}

// EmailNotifier mails level-ups and unlocked achievements to users that
// opted in. Other notification kinds are ignored.
type EmailNotifier struct {
	users  ports.UserRepository
	sender ports.EmailSender
	log    *zap.Logger
}

var _ ports.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(users ports.UserRepository, sender ports.EmailSender, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{users: users, sender: sender, log: log}
}

func (e *EmailNotifier) Notify(ctx context.Context, n domain.Notification) {
	if n.Kind != domain.NotifyLevelUp && n.Kind != domain.NotifyAchievementEarned {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	user, err := e.users.FindByID(ctx, n.UserID)
	if err != nil || user == nil {
		e.log.Debug("Skipping e-mail, user not found", zap.String("user_id", n.UserID), zap.Error(err))
		return
	}
	if !user.NotifyByEmail || user.Email == "" {
		return
	}

	body := fmt.Sprintf("Olá %s,\n\n%s\n\nEquipe Quest Board", user.Name, n.Description)
	if err := e.sender.Send(ctx, user.Email, n.Title, body); err != nil {
		e.log.Warn("Failed to send e-mail notification",
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
		telemetry.NotificationsTotal.WithLabelValues("email", "error").Inc()
		return
	}
	telemetry.NotificationsTotal.WithLabelValues("email", "ok").Inc()
}

// Fanout forwards every notification to each notifier in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, notifier := range f {
		notifier.Notify(ctx, n)
	}
}
