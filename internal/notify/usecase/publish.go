package usecase

import (
	"context"
	"encoding/json"

	instRepo "quantumreview/internal/installation/repository"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	repo "quantumreview/internal/notify/repository"
	"quantumreview/internal/queue"
)

// Publish stores the notification, then broadcasts it to live subscribers.
func (uc *implUseCase) Publish(ctx context.Context, input notify.PublishInput) error {
	n, err := uc.repo.CreateNotification(ctx, repo.CreateNotificationOptions{
		RepoID:  input.RepoID,
		Kind:    input.Kind,
		Payload: input.Payload,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Publish create: %v", err)
		return err
	}
	uc.hub.Broadcast(n)
	return nil
}

// List returns stored notifications.
func (uc *implUseCase) List(ctx context.Context, input notify.ListInput) ([]model.Notification, int, error) {
	notifications, total, err := uc.repo.ListNotifications(ctx, repo.ListNotificationsOptions{
		RepoID:     input.RepoID,
		UnreadOnly: input.UnreadOnly,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.List: %v", err)
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead flags one notification as read.
func (uc *implUseCase) MarkRead(ctx context.Context, id string) error {
	if err := uc.repo.MarkNotificationRead(ctx, id); err != nil {
		uc.l.Errorf(ctx, "uc.MarkRead: %v", err)
		return err
	}
	return nil
}

// Subscribe attaches a live listener.
func (uc *implUseCase) Subscribe(topic string) *notify.Subscription {
	return uc.hub.Subscribe(topic)
}

// JobFailed records a job that exhausted its attempts. Called by the worker
// after the dead status is committed. Failures here are logged and dropped,
// the job outcome itself is already durable.
func (uc *implUseCase) JobFailed(ctx context.Context, job queue.Job, lastError string) {
	var ref struct {
		GitHubRepoID int64  `json:"github_repo_id"`
		RepoFullName string `json:"repo_full_name"`
	}
	_ = json.Unmarshal(job.Payload, &ref)

	repoID := ""
	if ref.GitHubRepoID != 0 {
		rp, err := uc.repos.GetOneRepo(ctx, instRepo.GetOneRepoOptions{GitHubRepoID: ref.GitHubRepoID})
		if err == nil {
			repoID = rp.ID
		}
	}

	if err := uc.Publish(ctx, notify.PublishInput{
		RepoID: repoID,
		Kind:   model.NotificationJobFailed,
		Payload: map[string]any{
			"job_id":   job.ID,
			"job_type": string(job.Type),
			"repo":     ref.RepoFullName,
			"attempts": job.Attempts,
			"error":    lastError,
		},
	}); err != nil {
		uc.l.Errorf(ctx, "uc.JobFailed publish: %v", err)
	}
}
