package repository

import (
	"quantumreview/internal/queue"
)

// Repository is the durable job store backing the worker pool. The
// declaration lives in package queue so the worker can depend on it
// without importing this sub-package; this alias keeps call sites and
// the postgre implementation unchanged.
type Repository = queue.Repository
