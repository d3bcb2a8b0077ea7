package notify

import (
	"context"

	"quantumreview/internal/model"
)

// UseCase persists notifications and fans them out to live subscribers.
type UseCase interface {
	// Publish stores a notification, then broadcasts it. The durable write
	// always happens first so a dropped broadcast loses nothing.
	Publish(ctx context.Context, input PublishInput) error

	// List returns stored notifications for the read API.
	List(ctx context.Context, input ListInput) ([]model.Notification, int, error)

	// MarkRead flags one notification as read.
	MarkRead(ctx context.Context, id string) error

	// Subscribe attaches a live listener to a repo topic, or TopicAll.
	Subscribe(topic string) *Subscription
}

// PublishInput describes one notification to emit.
type PublishInput struct {
	RepoID  string
	Kind    model.NotificationKind
	Payload map[string]any
}

// ListInput holds filter and pagination parameters for listing notifications.
type ListInput struct {
	RepoID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}
