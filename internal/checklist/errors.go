package checklist

import "errors"

var (
	// ErrChecklistGenerationFailed means both the LLM path and the markdown
	// fallback produced nothing usable.
	ErrChecklistGenerationFailed = errors.New("checklist generation failed")

	// ErrIssueNotFound means the referenced issue is not tracked.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrItemNotFound means the referenced checklist item does not exist.
	ErrItemNotFound = errors.New("checklist item not found")
)
