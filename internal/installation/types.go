package installation

// SyncInstallationInput carries an installation lifecycle change.
type SyncInstallationInput struct {
	InstallationID int64
	AccountLogin   string
	Action         string // created, deleted, suspend, unsuspend
}

// RepoChange identifies one repository added to or removed from an installation.
type RepoChange struct {
	GitHubRepoID int64
	FullName     string
}

// SyncRepositoriesInput carries repository selection changes.
type SyncRepositoriesInput struct {
	InstallationID int64
	Added          []RepoChange
	Removed        []RepoChange
}

// ResolveRepoInput identifies a repository referenced by an incoming event.
type ResolveRepoInput struct {
	InstallationID int64
	GitHubRepoID   int64
	FullName       string
}

// GetRepoInput holds lookup keys for one tracked repo.
type GetRepoInput struct {
	FullName     string
	GitHubRepoID int64
}

// ListReposInput holds filter and pagination parameters for listing repos.
type ListReposInput struct {
	InstalledOnly bool
	Limit         int
	Offset        int
}
