package usecase

import (
	"context"

	clRepo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/internal/validation/repository"
	"quantumreview/pkg/github"
	"quantumreview/pkg/llmprovider"
	"quantumreview/pkg/log"
)

// checklistStore is the slice of the checklist store the validator needs.
type checklistStore interface {
	GetOneIssue(ctx context.Context, opt clRepo.GetOneIssueOptions) (model.Issue, error)
	ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error)
	UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error
}

// llmClient is the slice of the provider manager the validator needs.
type llmClient interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// tokenSource is the slice of the credential cache the validator needs.
type tokenSource interface {
	Token(ctx context.Context, installationID int64) (string, error)
}

// implUseCase is the private implementation of validation.UseCase.
type implUseCase struct {
	repo          repository.Repository
	checklists    checklistStore
	installations installation.UseCase
	tokens        tokenSource
	gh            github.IClient
	llm           llmClient
	notifier      notify.UseCase
	l             log.Logger
}

// New creates a new validation UseCase implementation.
func New(
	repo repository.Repository,
	checklists checklistStore,
	installations installation.UseCase,
	tokens tokenSource,
	gh github.IClient,
	llm llmClient,
	notifier notify.UseCase,
	l log.Logger,
) *implUseCase {
	return &implUseCase{
		repo:          repo,
		checklists:    checklists,
		installations: installations,
		tokens:        tokens,
		gh:            gh,
		llm:           llm,
		notifier:      notifier,
		l:             l,
	}
}
