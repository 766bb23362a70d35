package port

import (
	"context"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
)

// EventPublisher delivers auth lifecycle events to the event stream.
// Publishing is best effort; auth flows never fail because an event
// could not be delivered.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AuthEvent) error
}
