package repository

import (
	"context"

	"quantumreview/internal/model"
)

// Repository is the composed interface for the checklist store.
type Repository interface {
	IssueRepository
	ItemRepository
}

// IssueRepository defines data access for Issue rows.
type IssueRepository interface {
	UpsertIssue(ctx context.Context, opt UpsertIssueOptions) (model.Issue, error)
	GetOneIssue(ctx context.Context, opt GetOneIssueOptions) (model.Issue, error)
	SetIssueStatus(ctx context.Context, issueID string, status model.IssueStatus) error
}

// ItemRepository defines data access for ChecklistItem rows.
type ItemRepository interface {
	// ReplaceItems swaps the issue's checklist in one transaction. Items
	// flagged protected survive with their status intact; a new draft whose
	// item id collides with a protected row is skipped.
	ReplaceItems(ctx context.Context, opt ReplaceItemsOptions) error

	ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error)
	GetOneItem(ctx context.Context, issueID, itemID string) (model.ChecklistItem, error)
	UpdateItem(ctx context.Context, opt UpdateItemOptions) (model.ChecklistItem, error)

	// UpdateItemStatuses applies verdict-driven status changes in bulk.
	UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error

	// SetItemLinkedTests replaces the covering-test linkage per item.
	SetItemLinkedTests(ctx context.Context, issueID string, links map[string][]string) error
}
