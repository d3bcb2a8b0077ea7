package validation

import (
	"context"

	"quantumreview/internal/model"
)

// UseCase validates pull requests against their linked issue checklists.
type UseCase interface {
	// Validate assesses one PR head. Failures leave the previous result
	// untouched; successes append a new result.
	Validate(ctx context.Context, input ValidateInput) error

	// GetValidation returns the PR and its result history for the read API.
	// A zero-value PullRequest (ID == "") means the PR was never analyzed.
	GetValidation(ctx context.Context, input GetValidationInput) (model.PullRequest, []model.ValidationResult, error)
}
