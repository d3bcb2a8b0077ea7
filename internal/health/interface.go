package health

import (
	"context"

	"quantumreview/internal/model"
)

// UseCase ingests CI scan artifacts into health records.
type UseCase interface {
	// ProcessArtifacts downloads the known scan artifacts of a workflow
	// run, parses them and replaces the health record of the PR the run
	// belongs to. Absent artifacts leave their fields UNKNOWN.
	ProcessArtifacts(ctx context.Context, input ProcessInput) error

	// GetHealth returns the current health record of a PR. Zero-value
	// record (ID == "") when the PR was never analyzed.
	GetHealth(ctx context.Context, input GetHealthInput) (model.HealthRecord, error)
}
