package repository

import "quantumreview/internal/model"

// UpsertPROptions holds parameters for inserting or refreshing a PR row.
type UpsertPROptions struct {
	RepoID        string
	Number        int
	HeadSHA       string
	LinkedIssueID string
	Status        model.ValidationStatus
}

// GetOnePROptions holds filter parameters for fetching a single PR.
type GetOnePROptions struct {
	ID      string
	RepoID  string
	Number  int
	HeadSHA string
}

// CreateResultOptions holds one validation result to append.
type CreateResultOptions struct {
	PRID     string
	Verdicts []model.ItemVerdict
	Summary  string
	Score    int
	Model    string
}
