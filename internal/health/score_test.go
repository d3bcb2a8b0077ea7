package health

import (
	"testing"

	"quantumreview/config"
	"quantumreview/internal/model"
)

var defaultWeights = config.HealthConfig{
	SecurityWeight:  50,
	LintWeight:      20,
	CoverageWeight:  20,
	FreshnessWeight: 10,
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		rec  model.HealthRecord
		want int
	}{
		{
			name: "all unknown awards half of every weight",
			rec:  model.HealthRecord{LintStatus: model.LintUnknown},
			want: 50,
		},
		{
			name: "clean scanned repo scores full marks",
			rec: model.HealthRecord{
				VulnsScanned:    true,
				LintStatus:      model.LintPass,
				CoveragePercent: ptrFloat(100),
				OutdatedDeps:    ptrInt(0),
			},
			want: 100,
		},
		{
			name: "critical findings eat into security",
			rec: model.HealthRecord{
				Vulns:           model.SeverityCounts{Critical: 2, Low: 3},
				VulnsScanned:    true,
				LintStatus:      model.LintPass,
				CoveragePercent: ptrFloat(80),
				OutdatedDeps:    ptrInt(0),
			},
			// security 50*0.47 + lint 20 + coverage 16 + freshness 10
			want: 70,
		},
		{
			name: "security floor at zero despite many findings",
			rec: model.HealthRecord{
				Vulns:           model.SeverityCounts{Critical: 10},
				VulnsScanned:    true,
				LintStatus:      model.LintFail,
				CoveragePercent: ptrFloat(0),
				OutdatedDeps:    ptrInt(20),
			},
			want: 0,
		},
		{
			name: "partial scan mixes known and unknown",
			rec: model.HealthRecord{
				VulnsScanned: true,
				LintStatus:   model.LintUnknown,
				// coverage and freshness never scanned
			},
			// security 50 + lint 10 + coverage 10 + freshness 5
			want: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.rec, defaultWeights); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

// "Never scanned" and "scanned, nothing found" must be distinguishable.
func TestScore_UnknownDiffersFromClean(t *testing.T) {
	unknown := Score(model.HealthRecord{LintStatus: model.LintUnknown}, defaultWeights)
	clean := Score(model.HealthRecord{
		VulnsScanned:    true,
		LintStatus:      model.LintPass,
		CoveragePercent: ptrFloat(100),
		OutdatedDeps:    ptrInt(0),
	}, defaultWeights)

	if unknown == clean {
		t.Fatalf("all-unknown score %d must not equal all-clean score %d", unknown, clean)
	}
}

func TestScore_Deterministic(t *testing.T) {
	rec := model.HealthRecord{
		Vulns:           model.SeverityCounts{High: 1, Medium: 2},
		VulnsScanned:    true,
		LintStatus:      model.LintPass,
		CoveragePercent: ptrFloat(66.6),
		OutdatedDeps:    ptrInt(3),
	}
	first := Score(rec, defaultWeights)
	for i := 0; i < 5; i++ {
		if got := Score(rec, defaultWeights); got != first {
			t.Fatalf("Score() = %d on repeat, want %d", got, first)
		}
	}
}
