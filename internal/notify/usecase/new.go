package usecase

import (
	"context"

	instRepo "quantumreview/internal/installation/repository"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/internal/notify/repository"
	"quantumreview/pkg/log"
)

// repoLookup resolves the internal repo row for job payloads that only
// carry GitHub identifiers.
type repoLookup interface {
	GetOneRepo(ctx context.Context, opt instRepo.GetOneRepoOptions) (model.Repo, error)
}

// implUseCase is the private implementation of notify.UseCase.
type implUseCase struct {
	repo  repository.Repository
	hub   *notify.Hub
	repos repoLookup
	l     log.Logger
}

// New creates a new notify UseCase implementation.
func New(repo repository.Repository, hub *notify.Hub, repos repoLookup, l log.Logger) *implUseCase {
	return &implUseCase{
		repo:  repo,
		hub:   hub,
		repos: repos,
		l:     l,
	}
}
