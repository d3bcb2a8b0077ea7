package repository

import (
	"context"

	"quantumreview/internal/model"
)

// Repository is the notification store.
type Repository interface {
	CreateNotification(ctx context.Context, opt CreateNotificationOptions) (model.Notification, error)
	ListNotifications(ctx context.Context, opt ListNotificationsOptions) ([]model.Notification, int, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
