package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type client struct {
	appID      string
	privateKey *rsa.PrivateKey
	apiBase    string
	jwtExpiry  time.Duration
	httpClient *http.Client
}

func newClient(cfg Config) (*client, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("github: failed to parse private key: %w", err)
	}

	return &client{
		appID:      cfg.AppID,
		privateKey: key,
		apiBase:    cfg.APIBase,
		jwtExpiry:  cfg.JWTExpiry,
		httpClient: cfg.HTTPClient,
	}, nil
}

// CreateInstallationToken exchanges the app JWT for an installation token.
func (c *client) CreateInstallationToken(ctx context.Context, installationID int64) (*InstallationToken, error) {
	token, err := appJWT(c.appID, c.privateKey, c.jwtExpiry)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/app/installations/%d/access_tokens", installationID)
	var result InstallationToken
	if err := c.do(ctx, http.MethodPost, path, "Bearer "+token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListInstallationRepositories lists repositories reachable with the token.
// Pages through the listing endpoint until exhausted.
func (c *client) ListInstallationRepositories(ctx context.Context, token string) ([]Repository, error) {
	var repos []Repository
	for page := 1; ; page++ {
		path := fmt.Sprintf("/installation/repositories?per_page=100&page=%d", page)
		var result struct {
			TotalCount   int          `json:"total_count"`
			Repositories []Repository `json:"repositories"`
		}
		if err := c.do(ctx, http.MethodGet, path, "token "+token, nil, &result); err != nil {
			return nil, err
		}
		repos = append(repos, result.Repositories...)
		if len(result.Repositories) < 100 || len(repos) >= result.TotalCount {
			return repos, nil
		}
	}
}

func (c *client) GetIssue(ctx context.Context, token, repoFullName string, number int) (*Issue, error) {
	path := fmt.Sprintf("/repos/%s/issues/%d", repoFullName, number)
	var result Issue
	if err := c.do(ctx, http.MethodGet, path, "token "+token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) GetPullRequest(ctx context.Context, token, repoFullName string, number int) (*PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d", repoFullName, number)
	var result PullRequest
	if err := c.do(ctx, http.MethodGet, path, "token "+token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) ListPullRequestFiles(ctx context.Context, token, repoFullName string, number int) ([]PullFile, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d/files?per_page=100", repoFullName, number)
	var result []PullFile
	if err := c.do(ctx, http.MethodGet, path, "token "+token, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *client) CreateIssueComment(ctx context.Context, token, repoFullName string, number int, body string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/comments", repoFullName, number)
	payload := map[string]string{"body": body}
	return c.do(ctx, http.MethodPost, path, "token "+token, payload, nil)
}

func (c *client) ListWorkflowArtifacts(ctx context.Context, token, repoFullName string, runID int64) ([]Artifact, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs/%d/artifacts", repoFullName, runID)
	var result struct {
		Artifacts []Artifact `json:"artifacts"`
	}
	if err := c.do(ctx, http.MethodGet, path, "token "+token, nil, &result); err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// DownloadArtifact fetches the raw content behind an artifact URL.
func (c *client) DownloadArtifact(ctx context.Context, token, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("github: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: failed to download artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return io.ReadAll(resp.Body)
}

// do performs one API call against c.apiBase.
func (c *client) do(ctx context.Context, method, path, authorization string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("github: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return fmt.Errorf("github: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx GitHub API response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 API response.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsRetryable reports whether err is worth retrying (rate limit or 5xx).
func IsRetryable(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		// Network-level failures are retryable
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}
