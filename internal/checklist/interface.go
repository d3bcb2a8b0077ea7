package checklist

import (
	"context"

	"quantumreview/internal/model"
)

// UseCase generates and maintains acceptance checklists for issues.
type UseCase interface {
	// Generate builds the checklist for one issue, replacing any previous
	// items except those flagged protected. Re-running for the same issue
	// state converges on the same checklist.
	Generate(ctx context.Context, input GenerateInput) error

	// GetChecklist returns the issue and its checklist for the read API.
	// A zero-value Issue (ID == "") means the issue was never analyzed.
	GetChecklist(ctx context.Context, input GetChecklistInput) (model.Issue, []model.ChecklistItem, error)

	// UpdateItem applies a manual override to one checklist item.
	UpdateItem(ctx context.Context, input UpdateItemInput) (model.ChecklistItem, error)
}
