package usecase

import (
	"context"

	"quantumreview/config"
	"quantumreview/internal/health/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	valRepo "quantumreview/internal/validation/repository"
	"quantumreview/pkg/github"
	"quantumreview/pkg/log"
)

// prStore is the slice of the PR store the aggregator needs to attach a
// workflow run to its pull request.
type prStore interface {
	GetOnePR(ctx context.Context, opt valRepo.GetOnePROptions) (model.PullRequest, error)
}

// tokenSource is the slice of the credential cache this usecase needs.
type tokenSource interface {
	Token(ctx context.Context, installationID int64) (string, error)
}

// checklistStore is the slice of the checklist store needed to fold test
// outcomes onto the linked issue's items.
type checklistStore interface {
	ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error)
	UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error
	SetItemLinkedTests(ctx context.Context, issueID string, links map[string][]string) error
}

// implUseCase is the private implementation of health.UseCase.
type implUseCase struct {
	repo          repository.Repository
	prs           prStore
	checklists    checklistStore
	installations installation.UseCase
	tokens        tokenSource
	gh            github.IClient
	notifier      notify.UseCase
	weights       config.HealthConfig
	l             log.Logger
}

// New creates a new health UseCase implementation.
func New(
	repo repository.Repository,
	prs prStore,
	checklists checklistStore,
	installations installation.UseCase,
	tokens tokenSource,
	gh github.IClient,
	notifier notify.UseCase,
	weights config.HealthConfig,
	l log.Logger,
) *implUseCase {
	return &implUseCase{
		repo:          repo,
		prs:           prs,
		checklists:    checklists,
		installations: installations,
		tokens:        tokens,
		gh:            gh,
		notifier:      notifier,
		weights:       weights,
		l:             l,
	}
}
