package ghauth

import "context"

// TokenSource yields short-lived installation access tokens for GitHub API
// calls performed on behalf of an installation.
type TokenSource interface {
	// Token returns a token valid for at least the configured margin.
	Token(ctx context.Context, installationID int64) (string, error)
	// Evict drops the cached token for an installation, typically after
	// the app was uninstalled from the account.
	Evict(installationID int64)
}
