package health

import (
	"math"

	"quantumreview/config"
	"quantumreview/internal/model"
)

// Deduction per vulnerability, out of the 100 points of the security
// component. One critical finding costs a quarter of the component.
const (
	deductCritical = 25
	deductHigh     = 10
	deductMedium   = 4
	deductLow      = 1

	// Deduction per outdated dependency, out of the freshness component.
	deductOutdated = 10
)

// Score derives the 0-100 health score of a record as a weighted sum of its
// components. Components whose input was never scanned award half their
// weight, so an unscanned repo never scores like a clean one. Pure function,
// same record and weights always give the same score.
func Score(rec model.HealthRecord, cfg config.HealthConfig) int {
	score := float64(cfg.SecurityWeight) * securityFactor(rec)
	score += float64(cfg.LintWeight) * lintFactor(rec.LintStatus)
	score += float64(cfg.CoverageWeight) * coverageFactor(rec.CoveragePercent)
	score += float64(cfg.FreshnessWeight) * freshnessFactor(rec.OutdatedDeps)

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func securityFactor(rec model.HealthRecord) float64 {
	if !rec.VulnsScanned {
		return 0.5
	}
	deduction := float64(rec.Vulns.Critical*deductCritical +
		rec.Vulns.High*deductHigh +
		rec.Vulns.Medium*deductMedium +
		rec.Vulns.Low*deductLow)
	return math.Max(0, 1-deduction/100)
}

func lintFactor(status model.LintStatus) float64 {
	switch status {
	case model.LintPass:
		return 1
	case model.LintFail:
		return 0
	default:
		return 0.5
	}
}

func coverageFactor(pct *float64) float64 {
	if pct == nil {
		return 0.5
	}
	return *pct / 100
}

func freshnessFactor(outdated *int) float64 {
	if outdated == nil {
		return 0.5
	}
	return math.Max(0, 1-float64(*outdated*deductOutdated)/100)
}
