package usecase

import (
	"context"

	"quantumreview/internal/installation/repository"
	"quantumreview/pkg/github"
	"quantumreview/pkg/log"
)

// tokenCache is the slice of the credential cache the registry needs.
type tokenCache interface {
	Token(ctx context.Context, installationID int64) (string, error)
	Evict(installationID int64)
}

// repoLister is the slice of the GitHub client the registry needs to
// re-derive the reachable repo set.
type repoLister interface {
	ListInstallationRepositories(ctx context.Context, token string) ([]github.Repository, error)
}

// implUseCase is the private implementation of installation.UseCase.
type implUseCase struct {
	repo   repository.Repository
	tokens tokenCache
	gh     repoLister
	l      log.Logger
}

// New creates a new installation UseCase implementation.
func New(repo repository.Repository, tokens tokenCache, gh repoLister, l log.Logger) *implUseCase {
	return &implUseCase{
		repo:   repo,
		tokens: tokens,
		gh:     gh,
		l:      l,
	}
}
