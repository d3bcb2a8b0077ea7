// Package jobs binds queue job types to their usecase handlers. Each handler
// decodes the payload, calls into the owning usecase and classifies the
// error: payload and not-found failures are permanent, everything else is
// left retryable for the worker's backoff policy.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quantumreview/internal/checklist"
	"quantumreview/internal/health"
	"quantumreview/internal/installation"
	"quantumreview/internal/queue"
	"quantumreview/internal/validation"
	"quantumreview/pkg/github"
)

// Handlers owns the job-type to handler bindings.
type Handlers struct {
	installations installation.UseCase
	checklists    checklist.UseCase
	validations   validation.UseCase
	healths       health.UseCase
}

// New creates the handler set for worker registration.
func New(
	installations installation.UseCase,
	checklists checklist.UseCase,
	validations validation.UseCase,
	healths health.UseCase,
) *Handlers {
	return &Handlers{
		installations: installations,
		checklists:    checklists,
		validations:   validations,
		healths:       healths,
	}
}

// Register binds every job type on the worker.
func (h *Handlers) Register(w *queue.Worker) {
	w.Register(queue.TypeSyncInstallation, h.syncInstallation)
	w.Register(queue.TypeSyncRepositories, h.syncRepositories)
	w.Register(queue.TypeGenerateChecklist, h.generateChecklist)
	w.Register(queue.TypeValidatePR, h.validatePR)
	w.Register(queue.TypeProcessHealthArtifact, h.processHealthArtifact)
}

// decode unmarshals a payload; a payload that does not parse can never
// succeed on retry.
func decode(job queue.Job, v any) error {
	if err := json.Unmarshal(job.Payload, v); err != nil {
		return queue.Permanent(fmt.Errorf("decode %s payload: %w", job.Type, err))
	}
	return nil
}

// classify maps usecase errors onto the queue's retry policy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if github.IsNotFound(err) {
		// The referenced resource is gone; retrying cannot bring it back.
		return queue.Permanent(err)
	}
	if errors.Is(err, installation.ErrUnknownAction) {
		return queue.Permanent(err)
	}
	return err
}

func (h *Handlers) syncInstallation(ctx context.Context, job queue.Job) error {
	var p queue.SyncInstallationPayload
	if err := decode(job, &p); err != nil {
		return err
	}
	return classify(h.installations.SyncInstallation(ctx, installation.SyncInstallationInput{
		InstallationID: p.InstallationID,
		AccountLogin:   p.AccountLogin,
		Action:         p.Action,
	}))
}

func (h *Handlers) syncRepositories(ctx context.Context, job queue.Job) error {
	var p queue.SyncRepositoriesPayload
	if err := decode(job, &p); err != nil {
		return err
	}
	return classify(h.installations.SyncRepositories(ctx, installation.SyncRepositoriesInput{
		InstallationID: p.InstallationID,
		Added:          repoChanges(p.Added),
		Removed:        repoChanges(p.Removed),
	}))
}

func repoChanges(refs []queue.RepoRef) []installation.RepoChange {
	if len(refs) == 0 {
		return nil
	}
	changes := make([]installation.RepoChange, 0, len(refs))
	for _, ref := range refs {
		changes = append(changes, installation.RepoChange{
			GitHubRepoID: ref.GitHubRepoID,
			FullName:     ref.FullName,
		})
	}
	return changes
}

func (h *Handlers) generateChecklist(ctx context.Context, job queue.Job) error {
	var p queue.GenerateChecklistPayload
	if err := decode(job, &p); err != nil {
		return err
	}
	return classify(h.checklists.Generate(ctx, checklist.GenerateInput{
		InstallationID: p.InstallationID,
		RepoFullName:   p.RepoFullName,
		GitHubRepoID:   p.GitHubRepoID,
		IssueNumber:    p.IssueNumber,
	}))
}

func (h *Handlers) validatePR(ctx context.Context, job queue.Job) error {
	var p queue.ValidatePRPayload
	if err := decode(job, &p); err != nil {
		return err
	}
	return classify(h.validations.Validate(ctx, validation.ValidateInput{
		InstallationID: p.InstallationID,
		RepoFullName:   p.RepoFullName,
		GitHubRepoID:   p.GitHubRepoID,
		PRNumber:       p.PRNumber,
		HeadSHA:        p.HeadSHA,
	}))
}

func (h *Handlers) processHealthArtifact(ctx context.Context, job queue.Job) error {
	var p queue.ProcessHealthArtifactPayload
	if err := decode(job, &p); err != nil {
		return err
	}
	return classify(h.healths.ProcessArtifacts(ctx, health.ProcessInput{
		InstallationID: p.InstallationID,
		RepoFullName:   p.RepoFullName,
		GitHubRepoID:   p.GitHubRepoID,
		RunID:          p.RunID,
		HeadSHA:        p.HeadSHA,
	}))
}
