package repository

// UpsertInstallationOptions holds parameters for inserting or reactivating
// an installation.
type UpsertInstallationOptions struct {
	InstallationID int64
	AccountLogin   string
	Installed      bool
}

// UpsertRepoOptions holds parameters for inserting or reactivating a tracked repo.
type UpsertRepoOptions struct {
	InstallationID int64
	GitHubRepoID   int64
	FullName       string
}

// GetOneRepoOptions holds filter parameters for fetching a single repo.
// All non-zero fields are applied as AND conditions.
type GetOneRepoOptions struct {
	ID           string
	GitHubRepoID int64
	FullName     string
}

// ListReposOptions holds filter and pagination parameters for listing repos.
type ListReposOptions struct {
	InstallationID int64 // zero means all installations
	InstalledOnly  bool
	Limit          int
	Offset         int
}
