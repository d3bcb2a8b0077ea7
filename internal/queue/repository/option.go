package repository

import "quantumreview/internal/queue"

// RetryOptions holds parameters for rescheduling a failed job. Declared in
// package queue to avoid an import cycle; aliased here for call sites.
type RetryOptions = queue.RetryOptions
