package repository

import "quantumreview/internal/model"

// ReplaceOptions holds the full new health record for one PR.
type ReplaceOptions struct {
	PRID            string
	Vulns           model.SeverityCounts
	VulnsScanned    bool
	LintStatus      model.LintStatus
	CoveragePercent *float64
	OutdatedDeps    *int
	Score           int
}
