package ghauth

import "errors"

// ErrTokenAcquisition indicates a token refresh against GitHub failed.
// Handlers treat it as retryable; any still-valid cached token stays usable.
var ErrTokenAcquisition = errors.New("failed to acquire installation token")
