package validation

// ValidateInput identifies the PR head to validate. PR content is re-fetched
// from GitHub, never trusted from the event.
type ValidateInput struct {
	InstallationID int64
	RepoFullName   string
	GitHubRepoID   int64
	PRNumber       int
	HeadSHA        string
}

// GetValidationInput identifies a validation history to read.
type GetValidationInput struct {
	RepoFullName string
	PRNumber     int
}
