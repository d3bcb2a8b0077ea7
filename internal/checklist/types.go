package checklist

import "quantumreview/internal/model"

// ItemDraft is a checklist item before persistence, produced by the LLM
// path or the markdown fallback extractor.
type ItemDraft struct {
	ID       string
	Text     string
	Required bool
	Category string
	Priority string
	Tags     []string
}

// GenerateInput identifies the issue to build a checklist for. Issue content
// is re-fetched from GitHub by the handler, never trusted from the event.
type GenerateInput struct {
	InstallationID int64
	RepoFullName   string
	GitHubRepoID   int64
	IssueNumber    int
}

// GetChecklistInput identifies a checklist to read.
type GetChecklistInput struct {
	RepoFullName string
	IssueNumber  int
}

// UpdateItemInput carries a manual override for one item.
type UpdateItemInput struct {
	RepoFullName string
	IssueNumber  int
	ItemID       string
	Status       model.ChecklistItemStatus
	Protected    *bool // nil leaves the flag unchanged
}
