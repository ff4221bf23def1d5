package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/pkg/config"
)

// Subjects carried by the bus.
const (
	SubjectNotifications = "questboard.notifications"
	SubjectBoardEvents   = "questboard.board.events"
)

// MessageQueue is the publish/subscribe bus between the services and the
// live delivery workers.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Ping() error
	Close() error
}

// New connects to the configured broker. Driver "none" returns an
// in-process bus.
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case "nats", "":
		return NewNATSQueue(cfg, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg, log)
	case "none", "memory":
		return NewMemoryQueue(log), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}
