package notification

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/queue"
	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/observability/telemetry"
	"github.com/seu-repo/quest-board/internal/ports"
)

// QueuePublisher pushes notifications and board events onto the message
// bus, where the websocket hub picks them up.
type QueuePublisher struct {
	q   queue.MessageQueue
	log *zap.Logger
}

var (
	_ ports.Notifier       = (*QueuePublisher)(nil)
	_ ports.BoardPublisher = (*QueuePublisher)(nil)
)

func NewQueuePublisher(q queue.MessageQueue, log *zap.Logger) *QueuePublisher {
	return &QueuePublisher{q: q, log: log}
}

func (p *QueuePublisher) Notify(ctx context.Context, n domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Variant == "" {
		n.Variant = "default"
	}
	p.publish(queue.SubjectNotifications, n.UserID, n)
}

func (p *QueuePublisher) PublishBoard(ctx context.Context, ev domain.BoardEvent) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	p.publish(queue.SubjectBoardEvents, ev.UserID, ev)
}

func (p *QueuePublisher) publish(subject, userID string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Error("Failed to encode event", zap.String("subject", subject), zap.Error(err))
		telemetry.NotificationsTotal.WithLabelValues("queue", "error").Inc()
		return
	}

	if err := p.q.Publish(subject, data); err != nil {
		p.log.Warn("Failed to publish event",
			zap.String("subject", subject),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		telemetry.NotificationsTotal.WithLabelValues("queue", "error").Inc()
		return
	}
	telemetry.NotificationsTotal.WithLabelValues("queue", "ok").Inc()
}
