package validation

import "quantumreview/internal/model"

// FallbackScore derives a score from verdicts when the LLM response carries
// none, or one outside [0,100]. Only required checklist items count:
// 100 * (passed + 0.5*partial) / required_total, rounded to the nearest
// integer. Zero required items scores 0.
func FallbackScore(verdicts []model.ItemVerdict, requiredItems map[string]bool) int {
	requiredTotal := len(requiredItems)
	if requiredTotal == 0 {
		return 0
	}

	var weighted float64
	for _, v := range verdicts {
		if !requiredItems[v.ItemID] {
			continue
		}
		switch v.Verdict {
		case model.VerdictPassed:
			weighted += 1
		case model.VerdictPartial:
			weighted += 0.5
		}
	}

	score := int(100*weighted/float64(requiredTotal) + 0.5)
	if score > 100 {
		score = 100
	}
	return score
}
