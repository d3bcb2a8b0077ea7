package repository

import "quantumreview/internal/model"

// CreateNotificationOptions holds parameters for inserting a notification.
type CreateNotificationOptions struct {
	RepoID  string
	Kind    model.NotificationKind
	Payload map[string]any
}

// ListNotificationsOptions holds filter and pagination parameters.
type ListNotificationsOptions struct {
	RepoID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}
