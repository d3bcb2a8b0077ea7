package validation

import (
	"testing"

	"quantumreview/internal/model"
)

func TestFallbackScore(t *testing.T) {
	required := map[string]bool{"C1": true, "C2": true, "C3": true}

	tests := []struct {
		name     string
		verdicts []model.ItemVerdict
		required map[string]bool
		want     int
	}{
		{
			// 2 passed + 1 partial + 1 not-applicable against 3 required.
			name: "mixed verdicts",
			verdicts: []model.ItemVerdict{
				{ItemID: "C1", Verdict: model.VerdictPassed},
				{ItemID: "C2", Verdict: model.VerdictPassed},
				{ItemID: "C3", Verdict: model.VerdictPartial},
				{ItemID: "C4", Verdict: model.VerdictNotApplicable},
			},
			required: required,
			want:     83,
		},
		{
			name: "all passed",
			verdicts: []model.ItemVerdict{
				{ItemID: "C1", Verdict: model.VerdictPassed},
				{ItemID: "C2", Verdict: model.VerdictPassed},
				{ItemID: "C3", Verdict: model.VerdictPassed},
			},
			required: required,
			want:     100,
		},
		{
			name: "all failed",
			verdicts: []model.ItemVerdict{
				{ItemID: "C1", Verdict: model.VerdictFailed},
				{ItemID: "C2", Verdict: model.VerdictFailed},
				{ItemID: "C3", Verdict: model.VerdictFailed},
			},
			required: required,
			want:     0,
		},
		{
			// Optional items never move the score.
			name: "optional passed ignored",
			verdicts: []model.ItemVerdict{
				{ItemID: "C1", Verdict: model.VerdictPassed},
				{ItemID: "opt", Verdict: model.VerdictPassed},
			},
			required: required,
			want:     33,
		},
		{
			name:     "no required items",
			verdicts: []model.ItemVerdict{{ItemID: "C1", Verdict: model.VerdictPassed}},
			required: map[string]bool{},
			want:     0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackScore(tc.verdicts, tc.required); got != tc.want {
				t.Errorf("FallbackScore() = %d, want %d", got, tc.want)
			}
		})
	}
}
