package validation

import "errors"

var (
	// ErrValidationFailed means the LLM assessment could not be completed.
	// Any previous result stands.
	ErrValidationFailed = errors.New("validation failed")

	// ErrPRNotFound means the referenced pull request is not tracked.
	ErrPRNotFound = errors.New("pull request not found")
)
