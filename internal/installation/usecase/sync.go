package usecase

import (
	"context"

	"quantumreview/internal/installation"
	repo "quantumreview/internal/installation/repository"
	"quantumreview/internal/model"
)

// SyncInstallation applies an installation lifecycle change. Deletion keeps
// the rows for history but deactivates them and drops any cached token.
func (uc *implUseCase) SyncInstallation(ctx context.Context, input installation.SyncInstallationInput) error {
	switch input.Action {
	case "created", "unsuspend":
		_, err := uc.repo.UpsertInstallation(ctx, repo.UpsertInstallationOptions{
			InstallationID: input.InstallationID,
			AccountLogin:   input.AccountLogin,
			Installed:      true,
		})
		if err != nil {
			uc.l.Errorf(ctx, "uc.SyncInstallation upsert: %v", err)
			return err
		}
		uc.l.Infof(ctx, "installation %d (%s) active", input.InstallationID, input.AccountLogin)
		return uc.reconcileRepos(ctx, input.InstallationID)

	case "deleted", "suspend":
		if err := uc.repo.MarkInstallationRemoved(ctx, input.InstallationID); err != nil {
			uc.l.Errorf(ctx, "uc.SyncInstallation remove: %v", err)
			return err
		}
		if input.Action == "deleted" {
			if err := uc.repo.MarkReposRemovedByInstallation(ctx, input.InstallationID); err != nil {
				uc.l.Errorf(ctx, "uc.SyncInstallation remove repos: %v", err)
				return err
			}
		}
		// A token minted for this installation must not outlive it.
		uc.tokens.Evict(input.InstallationID)
		uc.l.Infof(ctx, "installation %d deactivated (%s)", input.InstallationID, input.Action)
		return nil

	default:
		return installation.ErrUnknownAction
	}
}

// SyncRepositories brings the tracked repo set in line with what the
// installation can actually reach. The event's added/removed lists are
// hints only; the set is re-derived from the API.
func (uc *implUseCase) SyncRepositories(ctx context.Context, input installation.SyncRepositoriesInput) error {
	uc.l.Infof(ctx, "installation %d repos changed: +%d -%d (hint)", input.InstallationID, len(input.Added), len(input.Removed))
	return uc.reconcileRepos(ctx, input.InstallationID)
}

// reconcileRepos upserts every repo the installation token can see and
// deactivates tracked repos that fell out of the selection. Errors bubble
// up so the job retries with fresh state.
func (uc *implUseCase) reconcileRepos(ctx context.Context, installationID int64) error {
	token, err := uc.tokens.Token(ctx, installationID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.reconcileRepos token: %v", err)
		return err
	}
	listed, err := uc.gh.ListInstallationRepositories(ctx, token)
	if err != nil {
		uc.l.Errorf(ctx, "uc.reconcileRepos list: %v", err)
		return err
	}

	reachable := make(map[int64]bool, len(listed))
	for _, ghRepo := range listed {
		reachable[ghRepo.ID] = true
		_, err := uc.repo.UpsertRepo(ctx, repo.UpsertRepoOptions{
			InstallationID: installationID,
			GitHubRepoID:   ghRepo.ID,
			FullName:       ghRepo.FullName,
		})
		if err != nil {
			uc.l.Errorf(ctx, "uc.reconcileRepos upsert %s: %v", ghRepo.FullName, err)
			return err
		}
	}

	tracked, _, err := uc.repo.ListRepos(ctx, repo.ListReposOptions{
		InstallationID: installationID,
		InstalledOnly:  true,
		Limit:          -1,
	})
	if err != nil {
		return err
	}
	for _, rp := range tracked {
		if reachable[rp.GitHubRepoID] {
			continue
		}
		if err := uc.repo.MarkRepoRemoved(ctx, installationID, rp.GitHubRepoID); err != nil {
			uc.l.Errorf(ctx, "uc.reconcileRepos remove %s: %v", rp.FullName, err)
			return err
		}
	}

	uc.l.Infof(ctx, "installation %d reconciled to %d repos", installationID, len(listed))
	return nil
}

// ResolveRepo returns the tracked repo, creating it when the event raced
// ahead of the repository sync job.
func (uc *implUseCase) ResolveRepo(ctx context.Context, input installation.ResolveRepoInput) (model.Repo, error) {
	existing, err := uc.repo.GetOneRepo(ctx, repo.GetOneRepoOptions{GitHubRepoID: input.GitHubRepoID})
	if err != nil {
		uc.l.Errorf(ctx, "uc.ResolveRepo get: %v", err)
		return model.Repo{}, err
	}
	if existing.ID != "" && existing.Installed {
		return existing, nil
	}

	created, err := uc.repo.UpsertRepo(ctx, repo.UpsertRepoOptions{
		InstallationID: input.InstallationID,
		GitHubRepoID:   input.GitHubRepoID,
		FullName:       input.FullName,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.ResolveRepo upsert: %v", err)
		return model.Repo{}, err
	}
	return created, nil
}

// GetRepo looks up a tracked repo by full name or GitHub id.
func (uc *implUseCase) GetRepo(ctx context.Context, input installation.GetRepoInput) (model.Repo, error) {
	rp, err := uc.repo.GetOneRepo(ctx, repo.GetOneRepoOptions{
		FullName:     input.FullName,
		GitHubRepoID: input.GitHubRepoID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.GetRepo: %v", err)
		return model.Repo{}, err
	}
	return rp, nil
}

// ListRepos lists tracked repositories.
func (uc *implUseCase) ListRepos(ctx context.Context, input installation.ListReposInput) ([]model.Repo, int, error) {
	repos, total, err := uc.repo.ListRepos(ctx, repo.ListReposOptions{
		InstalledOnly: input.InstalledOnly,
		Limit:         input.Limit,
		Offset:        input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.ListRepos: %v", err)
		return nil, 0, err
	}
	return repos, total, nil
}
