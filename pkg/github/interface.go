package github

import "context"

// IClient defines the GitHub App REST operations used by the service.
// Implementations are safe for concurrent use.
type IClient interface {
	// CreateInstallationToken exchanges the app JWT for a short-lived
	// installation access token.
	CreateInstallationToken(ctx context.Context, installationID int64) (*InstallationToken, error)

	// ListInstallationRepositories lists repositories reachable with the token.
	ListInstallationRepositories(ctx context.Context, token string) ([]Repository, error)

	// GetIssue fetches one issue.
	GetIssue(ctx context.Context, token, repoFullName string, number int) (*Issue, error)

	// GetPullRequest fetches one pull request.
	GetPullRequest(ctx context.Context, token, repoFullName string, number int) (*PullRequest, error)

	// ListPullRequestFiles lists the changed files of a pull request.
	ListPullRequestFiles(ctx context.Context, token, repoFullName string, number int) ([]PullFile, error)

	// CreateIssueComment posts a comment on an issue or pull request.
	CreateIssueComment(ctx context.Context, token, repoFullName string, number int, body string) error

	// ListWorkflowArtifacts lists artifacts produced by a workflow run.
	ListWorkflowArtifacts(ctx context.Context, token, repoFullName string, runID int64) ([]Artifact, error)

	// DownloadArtifact fetches the raw content of an artifact.
	DownloadArtifact(ctx context.Context, token, url string) ([]byte, error)
}

// New creates a new GitHub App client with the given configuration.
func New(cfg Config) (IClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newClient(cfg)
}
