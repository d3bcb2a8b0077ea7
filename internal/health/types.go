package health

// Names of the workflow artifacts the aggregator understands. Anything else
// produced by the run is ignored.
const (
	ArtifactVulnerability = "vulnerability-report"
	ArtifactLint          = "lint-report"
	ArtifactCoverage      = "coverage-report"
	ArtifactTests         = "test-report"
)

// TestResult is one JUnit test case outcome. ItemID is the checklist item
// the case names, empty when it names none.
type TestResult struct {
	ItemID  string
	Name    string
	Passed  bool
	Skipped bool
}

// ProcessInput identifies the workflow run whose artifacts should be
// ingested. Artifact content is always downloaded fresh.
type ProcessInput struct {
	InstallationID int64
	RepoFullName   string
	GitHubRepoID   int64
	RunID          int64
	HeadSHA        string
}

// GetHealthInput identifies a health record to read.
type GetHealthInput struct {
	RepoFullName string
	PRNumber     int
}
