package github

import "time"

const (
	// DefaultAPIBase is the public GitHub REST API endpoint.
	DefaultAPIBase = "https://api.github.com"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultJWTExpiry is the default app JWT lifetime. GitHub caps it at 10m.
	DefaultJWTExpiry = 10 * time.Minute

	acceptHeader = "application/vnd.github+json"
)
