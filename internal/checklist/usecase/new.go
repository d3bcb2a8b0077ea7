package usecase

import (
	"context"

	"quantumreview/internal/checklist"
	"quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/notify"
	"quantumreview/pkg/github"
	"quantumreview/pkg/log"
)

// generator abstracts the LLM-backed draft producer.
type generator interface {
	Generate(ctx context.Context, title, body string, labels []string) ([]checklist.ItemDraft, error)
}

// tokenSource is the slice of the credential cache this usecase needs.
type tokenSource interface {
	Token(ctx context.Context, installationID int64) (string, error)
}

// implUseCase is the private implementation of checklist.UseCase.
type implUseCase struct {
	repo          repository.Repository
	gen           generator
	installations installation.UseCase
	tokens        tokenSource
	gh            github.IClient
	notifier      notify.UseCase
	l             log.Logger
}

// New creates a new checklist UseCase implementation.
func New(
	repo repository.Repository,
	gen generator,
	installations installation.UseCase,
	tokens tokenSource,
	gh github.IClient,
	notifier notify.UseCase,
	l log.Logger,
) *implUseCase {
	return &implUseCase{
		repo:          repo,
		gen:           gen,
		installations: installations,
		tokens:        tokens,
		gh:            gh,
		notifier:      notifier,
		l:             l,
	}
}
