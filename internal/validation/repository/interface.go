package repository

import (
	"context"

	"quantumreview/internal/model"
)

// Repository is the composed interface for the validation store.
type Repository interface {
	PRRepository
	ResultRepository
}

// PRRepository defines data access for tracked pull requests.
type PRRepository interface {
	UpsertPR(ctx context.Context, opt UpsertPROptions) (model.PullRequest, error)
	GetOnePR(ctx context.Context, opt GetOnePROptions) (model.PullRequest, error)
	SetPRStatus(ctx context.Context, prID string, status model.ValidationStatus) error
}

// ResultRepository defines data access for validation results. The history
// is append-only, rows are never updated or deleted.
type ResultRepository interface {
	CreateResult(ctx context.Context, opt CreateResultOptions) (model.ValidationResult, error)
	ListResults(ctx context.Context, prID string) ([]model.ValidationResult, error)
}
