package webhook

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute
}

// Minimal projections of GitHub webhook payloads. Only the fields the
// router needs are decoded.

type eventInstallation struct {
	ID      int64 `json:"id"`
	Account struct {
		Login string `json:"login"`
	} `json:"account"`
}

type eventRepository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

type installationEvent struct {
	Action       string            `json:"action"`
	Installation eventInstallation `json:"installation"`
	Repositories []eventRepository `json:"repositories"`
}

type installationRepositoriesEvent struct {
	Action              string            `json:"action"`
	Installation        eventInstallation `json:"installation"`
	RepositoriesAdded   []eventRepository `json:"repositories_added"`
	RepositoriesRemoved []eventRepository `json:"repositories_removed"`
}

type issuesEvent struct {
	Action string `json:"action"`
	Issue  struct {
		Number int `json:"number"`
	} `json:"issue"`
	Repository   eventRepository   `json:"repository"`
	Installation eventInstallation `json:"installation"`
}

type pullRequestEvent struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	PullRequest struct {
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
	Repository   eventRepository   `json:"repository"`
	Installation eventInstallation `json:"installation"`
}

type workflowRunEvent struct {
	Action      string `json:"action"`
	WorkflowRun struct {
		ID      int64  `json:"id"`
		HeadSHA string `json:"head_sha"`
	} `json:"workflow_run"`
	Repository   eventRepository   `json:"repository"`
	Installation eventInstallation `json:"installation"`
}
