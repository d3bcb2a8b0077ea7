package health

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"quantumreview/internal/model"
)

type junitCase struct {
	Name      string    `xml:"name,attr"`
	Classname string    `xml:"classname,attr"`
	Failure   *struct{} `xml:"failure"`
	Error     *struct{} `xml:"error"`
	Skipped   *struct{} `xml:"skipped"`
}

type junitSuite struct {
	Cases  []junitCase  `xml:"testcase"`
	Suites []junitSuite `xml:"testsuite"`
}

// Checklist item references carried by a test case:
// name "C1::test_login" or classname "checklist:C1".
var itemRefPattern = regexp.MustCompile(`^[A-Z]+\d+$`)

// ParseTestReport parses a JUnit XML document into per-case results. Both
// <testsuites> and a bare <testsuite> root are accepted.
func ParseTestReport(data []byte) ([]TestResult, error) {
	var root junitSuite
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: test report: %v", ErrArtifactParse, err)
	}

	var results []TestResult
	collectCases(root, &results)
	return results, nil
}

func collectCases(suite junitSuite, out *[]TestResult) {
	for _, tc := range suite.Cases {
		*out = append(*out, TestResult{
			ItemID:  itemRef(tc),
			Name:    caseName(tc),
			Passed:  tc.Failure == nil && tc.Error == nil && tc.Skipped == nil,
			Skipped: tc.Skipped != nil,
		})
	}
	for _, nested := range suite.Suites {
		collectCases(nested, out)
	}
}

func itemRef(tc junitCase) string {
	if prefix, _, ok := strings.Cut(tc.Name, "::"); ok && itemRefPattern.MatchString(prefix) {
		return prefix
	}
	if ref, ok := strings.CutPrefix(tc.Classname, "checklist:"); ok && itemRefPattern.MatchString(ref) {
		return ref
	}
	return ""
}

func caseName(tc junitCase) string {
	if _, name, ok := strings.Cut(tc.Name, "::"); ok && name != "" {
		return name
	}
	return tc.Name
}

// MapTestResults folds test outcomes onto checklist items. A case covers
// an item when it references the item id directly or appears in the item's
// linked test ids. A failing case always wins over passing ones; skipped
// cases change nothing. The second return value records which test names
// covered each item.
func MapTestResults(results []TestResult, items []model.ChecklistItem) (map[string]model.ChecklistItemStatus, map[string][]string) {
	statuses := make(map[string]model.ChecklistItemStatus)
	links := make(map[string][]string)

	for _, item := range items {
		linked := make(map[string]bool, len(item.LinkedTestIDs))
		for _, id := range item.LinkedTestIDs {
			linked[id] = true
		}

		for _, res := range results {
			if res.ItemID != item.ItemID && !linked[res.Name] {
				continue
			}
			links[item.ItemID] = appendUnique(links[item.ItemID], res.Name)
			if res.Skipped {
				continue
			}
			if !res.Passed {
				statuses[item.ItemID] = model.ChecklistItemFailed
			} else if statuses[item.ItemID] != model.ChecklistItemFailed {
				statuses[item.ItemID] = model.ChecklistItemPassed
			}
		}
	}
	return statuses, links
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
