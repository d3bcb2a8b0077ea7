package repository

import (
	"context"

	"quantumreview/internal/model"
)

// Repository is the composed interface for the installation registry store.
type Repository interface {
	InstallationRepository
	RepoRepository
}

// InstallationRepository defines data access for Installation rows.
type InstallationRepository interface {
	UpsertInstallation(ctx context.Context, opt UpsertInstallationOptions) (model.Installation, error)
	GetOneInstallation(ctx context.Context, installationID int64) (model.Installation, error)
	MarkInstallationRemoved(ctx context.Context, installationID int64) error
}

// RepoRepository defines data access for tracked repositories.
type RepoRepository interface {
	UpsertRepo(ctx context.Context, opt UpsertRepoOptions) (model.Repo, error)
	GetOneRepo(ctx context.Context, opt GetOneRepoOptions) (model.Repo, error)
	ListRepos(ctx context.Context, opt ListReposOptions) ([]model.Repo, int, error)
	MarkRepoRemoved(ctx context.Context, installationID, githubRepoID int64) error
	MarkReposRemovedByInstallation(ctx context.Context, installationID int64) error
}
