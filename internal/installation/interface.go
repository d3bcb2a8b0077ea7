package installation

import (
	"context"

	"quantumreview/internal/model"
)

// UseCase maintains the installation and repository registry driven by
// GitHub App lifecycle events.
type UseCase interface {
	// SyncInstallation applies an installation lifecycle change. Replays
	// of the same event converge on the same state.
	SyncInstallation(ctx context.Context, input SyncInstallationInput) error

	// SyncRepositories applies repository selection changes of an installation.
	SyncRepositories(ctx context.Context, input SyncRepositoriesInput) error

	// ResolveRepo returns the tracked repo row for a GitHub repository,
	// creating it when an event arrives before its sync job ran.
	ResolveRepo(ctx context.Context, input ResolveRepoInput) (model.Repo, error)

	// GetRepo looks up a tracked repo by full name or GitHub id. Zero-value
	// Repo (ID == "") when not tracked.
	GetRepo(ctx context.Context, input GetRepoInput) (model.Repo, error)

	// ListRepos lists tracked repositories for the read API.
	ListRepos(ctx context.Context, input ListReposInput) ([]model.Repo, int, error)
}
