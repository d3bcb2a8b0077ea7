package model

import "time"

// LintStatus is the lint outcome reported by a scan artifact.
type LintStatus string

const (
	LintPass    LintStatus = "PASS"
	LintFail    LintStatus = "FAIL"
	LintUnknown LintStatus = "UNKNOWN"
)

// SeverityCounts holds vulnerability counts by severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the sum across severities.
func (s SeverityCounts) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// HealthRecord is a normalized snapshot of a PR's security/quality signals.
// Absent scans leave their fields UNKNOWN/nil so "not scanned" is
// distinguishable from "no issues found". Each new analysis replaces the
// record wholesale.
type HealthRecord struct {
	ID              string
	PRID            string
	Vulns           SeverityCounts
	VulnsScanned    bool
	LintStatus      LintStatus
	CoveragePercent *float64
	OutdatedDeps    *int
	Score           int // 0-100
	AnalyzedAt      time.Time
}
