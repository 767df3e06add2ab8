package ports

import (
	"context"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// SubmissionNotifier hands a submission event off for delivery. Implementations
// must not block the caller; delivery is best effort. Delivery may happen after
// Notify returns, so "connected at the moment" means connected when the event
// reaches the hub, which can include a listener that joined a few milliseconds
// after the submit response was sent.
type SubmissionNotifier interface {
	Notify(event domain.SubmissionEvent)
}

// EventPublisher delivers a submission event to the real-time listeners that
// are connected at the moment of the call.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SubmissionEvent) error
}
