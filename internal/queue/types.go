package queue

import (
	"encoding/json"
	"time"
)

// JobType identifies the unit of background work a job carries.
type JobType string

const (
	TypeSyncInstallation      JobType = "sync_installation"
	TypeSyncRepositories      JobType = "sync_repositories"
	TypeGenerateChecklist     JobType = "generate_checklist"
	TypeValidatePR            JobType = "validate_pr"
	TypeProcessHealthArtifact JobType = "process_health_artifact"
)

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusDead      JobStatus = "dead"
)

// Job is one durable unit of work. DedupKey makes enqueue idempotent:
// inserting a second job with the same key is a no-op.
type Job struct {
	ID          string
	Type        JobType
	DedupKey    string
	Payload     json.RawMessage
	Status      JobStatus
	Attempts    int
	MaxAttempts int
	RunAt       time.Time
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RepoRef identifies a GitHub repository inside job payloads.
type RepoRef struct {
	GitHubRepoID int64  `json:"github_repo_id"`
	FullName     string `json:"full_name"`
}

// SyncInstallationPayload carries an installation lifecycle change.
type SyncInstallationPayload struct {
	InstallationID int64  `json:"installation_id"`
	AccountLogin   string `json:"account_login"`
	Action         string `json:"action"`
}

// SyncRepositoriesPayload carries repository selection changes of an installation.
type SyncRepositoriesPayload struct {
	InstallationID int64     `json:"installation_id"`
	Added          []RepoRef `json:"added,omitempty"`
	Removed        []RepoRef `json:"removed,omitempty"`
}

// GenerateChecklistPayload requests checklist generation for one issue.
type GenerateChecklistPayload struct {
	InstallationID int64  `json:"installation_id"`
	RepoFullName   string `json:"repo_full_name"`
	GitHubRepoID   int64  `json:"github_repo_id"`
	IssueNumber    int    `json:"issue_number"`
	Action         string `json:"action"`
}

// ValidatePRPayload requests validation of one pull request head.
type ValidatePRPayload struct {
	InstallationID int64  `json:"installation_id"`
	RepoFullName   string `json:"repo_full_name"`
	GitHubRepoID   int64  `json:"github_repo_id"`
	PRNumber       int    `json:"pr_number"`
	HeadSHA        string `json:"head_sha"`
}

// ProcessHealthArtifactPayload requests ingestion of workflow run artifacts.
type ProcessHealthArtifactPayload struct {
	InstallationID int64  `json:"installation_id"`
	RepoFullName   string `json:"repo_full_name"`
	GitHubRepoID   int64  `json:"github_repo_id"`
	RunID          int64  `json:"run_id"`
	HeadSHA        string `json:"head_sha"`
}

// NewJob builds a pending job with a JSON-encoded payload.
func NewJob(jobType JobType, dedupKey string, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, err
	}
	return Job{
		Type:     jobType,
		DedupKey: dedupKey,
		Payload:  raw,
		Status:   StatusPending,
	}, nil
}
