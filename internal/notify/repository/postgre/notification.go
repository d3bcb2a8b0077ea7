package postgre

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quantumreview/internal/model"
	repo "quantumreview/internal/notify/repository"
)

// CreateNotification inserts a notification with a JSONB payload.
func (r *implRepository) CreateNotification(ctx context.Context, opt repo.CreateNotificationOptions) (model.Notification, error) {
	payload, err := json.Marshal(opt.Payload)
	if err != nil {
		r.l.Errorf(ctx, "%s marshal: %v", r.dsn("CreateNotification"), err)
		return model.Notification{}, repo.ErrFailedToInsert
	}

	const query = `
		INSERT INTO notifications (id, repo_id, kind, payload, read, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, FALSE, NOW())
		RETURNING id, repo_id, kind, payload, read, created_at`

	var n model.Notification
	var raw []byte
	var repoID *string
	if opt.RepoID != "" {
		repoID = &opt.RepoID
	}
	err = r.db.QueryRowContext(ctx, query, repoID, opt.Kind, payload).Scan(
		&n.ID, &repoID, &n.Kind, &raw, &n.Read, &n.CreatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateNotification"), err)
		return model.Notification{}, repo.ErrFailedToInsert
	}
	if repoID != nil {
		n.RepoID = *repoID
	}
	if err := json.Unmarshal(raw, &n.Payload); err != nil {
		n.Payload = nil
	}
	return n, nil
}

// ListNotifications returns a paginated list, newest first, with the total count.
func (r *implRepository) ListNotifications(ctx context.Context, opt repo.ListNotificationsOptions) ([]model.Notification, int, error) {
	var conds []string
	var args []any
	if opt.RepoID != "" {
		args = append(args, opt.RepoID)
		conds = append(conds, fmt.Sprintf("repo_id = $%d", len(args)))
	}
	if opt.UnreadOnly {
		conds = append(conds, "read = FALSE")
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListNotifications"), err)
		return nil, 0, repo.ErrFailedToList
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, opt.Offset)
	query := fmt.Sprintf(
		`SELECT id, repo_id, kind, payload, read, created_at FROM notifications
		 WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListNotifications"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var raw []byte
		var repoID *string
		if err := rows.Scan(&n.ID, &repoID, &n.Kind, &raw, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, repo.ErrFailedToList
		}
		if repoID != nil {
			n.RepoID = *repoID
		}
		_ = json.Unmarshal(raw, &n.Payload)
		notifications = append(notifications, n)
	}
	return notifications, total, nil
}

// MarkNotificationRead flags one notification as read.
func (r *implRepository) MarkNotificationRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkNotificationRead"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
