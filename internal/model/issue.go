package model

import "time"

// IssueStatus tracks checklist generation progress for an issue.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusProcessing IssueStatus = "processing"
	IssueStatusProcessed  IssueStatus = "processed"
	IssueStatusFailed     IssueStatus = "failed"
)

// Issue is a tracked repository issue.
type Issue struct {
	ID        string // internal UUID
	RepoID    string
	Number    int
	Title     string
	Body      string
	Status    IssueStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChecklistItemStatus is the verification state of one checklist item.
type ChecklistItemStatus string

const (
	ChecklistItemPending ChecklistItemStatus = "pending"
	ChecklistItemPassed  ChecklistItemStatus = "passed"
	ChecklistItemFailed  ChecklistItemStatus = "failed"
	ChecklistItemSkipped ChecklistItemStatus = "skipped"
)

// ChecklistItem is one acceptance-criteria entry derived from an issue.
// ItemID is unique within the owning issue (C1, C2, ...).
type ChecklistItem struct {
	ID            string // internal UUID
	IssueID       string
	ItemID        string
	Text          string
	Required      bool
	Category      string
	Priority      string
	Tags          []string
	Status        ChecklistItemStatus
	Protected     bool // survives regeneration with status intact
	LinkedTestIDs []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
