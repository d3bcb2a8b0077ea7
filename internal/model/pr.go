package model

import "time"

// ValidationStatus tracks PR validation progress.
type ValidationStatus string

const (
	ValidationStatusPending   ValidationStatus = "pending"
	ValidationStatusRunning   ValidationStatus = "running"
	ValidationStatusValidated ValidationStatus = "validated"
	ValidationStatusNeedsWork ValidationStatus = "needs_work"
	ValidationStatusFailed    ValidationStatus = "failed"
)

// PullRequest is a tracked pull request.
type PullRequest struct {
	ID               string // internal UUID
	RepoID           string
	Number           int
	HeadSHA          string
	LinkedIssueID    string // empty when no issue reference was found
	ValidationStatus ValidationStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Verdict is the assessment of a single checklist item against a PR.
type Verdict string

const (
	VerdictPassed        Verdict = "PASSED"
	VerdictFailed        Verdict = "FAILED"
	VerdictPartial       Verdict = "PARTIAL"
	VerdictNotApplicable Verdict = "NOT_APPLICABLE"
)

// ItemVerdict is one per-item assessment inside a ValidationResult.
type ItemVerdict struct {
	ItemID        string  `json:"item_id"`
	Verdict       Verdict `json:"verdict"`
	Justification string  `json:"justification"`
}

// ValidationResult is one full validation of a PR against its checklist.
// History is append-only; the newest row is the current result.
type ValidationResult struct {
	ID        string
	PRID      string
	Verdicts  []ItemVerdict
	Summary   string
	Score     int // 0-100
	Model     string
	CreatedAt time.Time
}
