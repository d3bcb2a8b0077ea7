package repository

import "quantumreview/internal/model"

// UpsertIssueOptions holds parameters for inserting or refreshing an issue.
type UpsertIssueOptions struct {
	RepoID string
	Number int
	Title  string
	Body   string
	Status model.IssueStatus
}

// GetOneIssueOptions holds filter parameters for fetching a single issue.
type GetOneIssueOptions struct {
	ID     string
	RepoID string
	Number int
}

// ItemDraft is one checklist row to insert during replacement.
type ItemDraft struct {
	ItemID   string
	Text     string
	Required bool
	Category string
	Priority string
	Tags     []string
}

// ReplaceItemsOptions holds the full replacement set for one issue.
type ReplaceItemsOptions struct {
	IssueID string
	Items   []ItemDraft
}

// UpdateItemOptions holds a manual override for one item.
type UpdateItemOptions struct {
	IssueID   string
	ItemID    string
	Status    model.ChecklistItemStatus
	Protected *bool // nil leaves the flag unchanged
}
