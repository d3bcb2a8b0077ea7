package postgre

import (
	"context"
	"database/sql"
	"time"

	"quantumreview/internal/queue"
	repo "quantumreview/internal/queue/repository"
)

const jobColumns = `id, type, dedup_key, payload, status, attempts, max_attempts, run_at, last_error, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (queue.Job, error) {
	var j queue.Job
	err := row.Scan(
		&j.ID, &j.Type, &j.DedupKey, &j.Payload, &j.Status,
		&j.Attempts, &j.MaxAttempts, &j.RunAt, &j.LastError,
		&j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// Enqueue inserts a pending job, deduplicated on dedup_key.
func (r *implRepository) Enqueue(ctx context.Context, job queue.Job) (bool, error) {
	const query = `
		INSERT INTO jobs (type, dedup_key, payload, status, attempts, max_attempts, run_at, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', 0, $4, NOW(), NOW(), NOW())
		ON CONFLICT (dedup_key) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, job.Type, job.DedupKey, job.Payload, job.MaxAttempts)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Enqueue"), err)
		return false, repo.ErrFailedToInsert
	}
	affected, err := res.RowsAffected()
	if err != nil {
		r.l.Errorf(ctx, "%s rows affected: %v", r.dsn("Enqueue"), err)
		return false, repo.ErrFailedToInsert
	}
	return affected > 0, nil
}

// Claim picks one due pending job and marks it running. SKIP LOCKED keeps
// concurrent workers from fighting over the same row.
func (r *implRepository) Claim(ctx context.Context) (queue.Job, error) {
	const query = `
		UPDATE jobs
		SET status = 'running', attempts = attempts + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = 'pending' AND run_at <= NOW()
			ORDER BY run_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	j, err := scanJob(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return queue.Job{}, nil // nothing due → zero value, no error
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Claim"), err)
		return queue.Job{}, repo.ErrFailedToClaim
	}
	return j, nil
}

// Complete marks a running job completed.
func (r *implRepository) Complete(ctx context.Context, id string) error {
	const query = `UPDATE jobs SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'running'`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Complete"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// Retry reschedules a running job as pending with a future run_at.
func (r *implRepository) Retry(ctx context.Context, opt repo.RetryOptions) error {
	const query = `
		UPDATE jobs
		SET status = 'pending', run_at = $1, last_error = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'running'`
	if _, err := r.db.ExecContext(ctx, query, opt.RunAt, opt.LastError, opt.ID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Retry"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// MarkDead retires a running job permanently.
func (r *implRepository) MarkDead(ctx context.Context, id string, lastError string) error {
	const query = `UPDATE jobs SET status = 'dead', last_error = $1, updated_at = NOW() WHERE id = $2 AND status = 'running'`
	if _, err := r.db.ExecContext(ctx, query, lastError, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkDead"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// CountByStatus returns job counts grouped by status.
func (r *implRepository) CountByStatus(ctx context.Context) (map[queue.JobStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM jobs GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CountByStatus"), err)
		return nil, repo.ErrFailedToCount
	}
	defer rows.Close()

	counts := make(map[queue.JobStatus]int)
	for rows.Next() {
		var status queue.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, repo.ErrFailedToCount
		}
		counts[status] = n
	}
	return counts, nil
}

// staleRunningCutoff is how long a job may sit running before a reaper pass
// returns it to pending, covering worker crashes mid-job.
const staleRunningCutoff = 15 * time.Minute

// RequeueStale returns long-running jobs to pending so another worker can
// pick them up after a crash.
func (r *implRepository) RequeueStale(ctx context.Context) (int, error) {
	const query = `
		UPDATE jobs
		SET status = 'pending', updated_at = NOW()
		WHERE status = 'running' AND updated_at < NOW() - make_interval(secs => $1)`
	res, err := r.db.ExecContext(ctx, query, staleRunningCutoff.Seconds())
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("RequeueStale"), err)
		return 0, repo.ErrFailedToUpdate
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
