package repository

import (
	"context"

	"quantumreview/internal/model"
)

// Repository defines data access for health records. One record per PR,
// replaced wholesale on every new analysis.
type Repository interface {
	Replace(ctx context.Context, opt ReplaceOptions) (model.HealthRecord, error)
	GetByPR(ctx context.Context, prID string) (model.HealthRecord, error)
}
