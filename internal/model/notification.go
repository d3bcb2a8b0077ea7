package model

import "time"

// NotificationKind classifies persisted notifications.
type NotificationKind string

const (
	NotificationChecklistReady NotificationKind = "checklist_ready"
	NotificationPRValidated    NotificationKind = "pr_validated"
	NotificationHealthUpdated  NotificationKind = "health_updated"
	NotificationJobFailed      NotificationKind = "job_failed"
)

// Notification is a persisted user-visible notification.
type Notification struct {
	ID        string
	RepoID    string
	Kind      NotificationKind
	Payload   map[string]any
	Read      bool
	CreatedAt time.Time
}
