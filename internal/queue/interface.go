package queue

import (
	"context"
	"time"
)

// Repository is the durable job store backing the worker pool.
type Repository interface {
	// Enqueue inserts a pending job. A job with the same dedup key already
	// in the table makes the insert a no-op; inserted reports whether a
	// new row was created.
	Enqueue(ctx context.Context, job Job) (inserted bool, err error)

	// Claim atomically picks one due pending job and marks it running.
	// Returns a zero-value Job (ID == "") when nothing is due.
	Claim(ctx context.Context) (Job, error)

	// Complete marks a running job completed.
	Complete(ctx context.Context, id string) error

	// Retry reschedules a running job for another attempt.
	Retry(ctx context.Context, opt RetryOptions) error

	// MarkDead retires a running job after its final failure.
	MarkDead(ctx context.Context, id string, lastError string) error

	// CountByStatus returns job counts per status, used by readiness reporting.
	CountByStatus(ctx context.Context) (map[JobStatus]int, error)

	// RequeueStale returns jobs stuck in running back to pending after a
	// worker crash, and reports how many were requeued.
	RequeueStale(ctx context.Context) (int, error)
}

// RetryOptions holds parameters for rescheduling a failed job.
type RetryOptions struct {
	ID        string
	RunAt     time.Time
	LastError string
}

// Enqueuer is the narrow producer-side interface handed to webhook ingestion.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobs ...Job) error
}

// Handler executes one claimed job. Returning an error marked with
// Permanent retires the job immediately; any other error reschedules it
// until the attempt budget runs out.
type Handler func(ctx context.Context, job Job) error

// FailureNotifier is told about jobs that exhaust their attempts, after the
// dead status is already committed.
type FailureNotifier interface {
	JobFailed(ctx context.Context, job Job, lastError string)
}
