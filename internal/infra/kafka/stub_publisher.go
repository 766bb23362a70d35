package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// Publish logs the event at info level and never fails.
func (p *StubPublisher) Publish(_ context.Context, event domain.AuthEvent) error {
	at := event.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", event.Kind),
		zap.String("user_id", event.UserID),
		zap.String("session_id", event.SessionID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", event.Payload),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
