package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quantumreview/internal/model"
)

// ParseVulnerabilityReport parses a severity-tagged findings document into
// per-severity counts. Accepted shapes: {"findings": [{"severity": "..."}]}
// or a bare array of findings. Severities outside the known four are ignored.
func ParseVulnerabilityReport(data []byte) (model.SeverityCounts, error) {
	type finding struct {
		Severity string `json:"severity"`
	}
	var findings []finding

	var wrapped struct {
		Findings []finding `json:"findings"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Findings != nil {
		findings = wrapped.Findings
	} else if err := json.Unmarshal(data, &findings); err != nil {
		return model.SeverityCounts{}, fmt.Errorf("%w: vulnerability report: %v", ErrArtifactParse, err)
	}

	var counts model.SeverityCounts
	for _, f := range findings {
		switch strings.ToLower(strings.TrimSpace(f.Severity)) {
		case "critical":
			counts.Critical++
		case "high":
			counts.High++
		case "medium", "moderate":
			counts.Medium++
		case "low":
			counts.Low++
		}
	}
	return counts, nil
}

// ParseLintReport parses a lint outcome. Accepted shapes:
// {"status": "pass"} or the bare words pass/fail.
func ParseLintReport(data []byte) (model.LintStatus, error) {
	text := string(bytes.TrimSpace(data))

	var doc struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Status != "" {
		text = doc.Status
	}

	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "PASS", "OK", "SUCCESS":
		return model.LintPass, nil
	case "FAIL", "FAILURE", "ERROR":
		return model.LintFail, nil
	default:
		return model.LintUnknown, fmt.Errorf("%w: lint report: unrecognized status %q", ErrArtifactParse, text)
	}
}

// ParseCoverageReport parses a coverage percentage. Accepted shapes:
// {"coverage_percent": 82.5}, {"percent": 82.5} or a bare number, with an
// optional trailing percent sign.
func ParseCoverageReport(data []byte) (*float64, error) {
	var doc struct {
		CoveragePercent *float64 `json:"coverage_percent"`
		Percent         *float64 `json:"percent"`
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		if doc.CoveragePercent != nil {
			return validCoverage(*doc.CoveragePercent)
		}
		if doc.Percent != nil {
			return validCoverage(*doc.Percent)
		}
	}

	text := strings.TrimSuffix(string(bytes.TrimSpace(data)), "%")
	pct, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: coverage report: %v", ErrArtifactParse, err)
	}
	return validCoverage(pct)
}

func validCoverage(pct float64) (*float64, error) {
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: coverage report: %v out of range", ErrArtifactParse, pct)
	}
	return &pct, nil
}
