package queue

import (
	"context"
	"sync"
	"time"

	"quantumreview/config"
	"quantumreview/pkg/log"
)

// Worker claims jobs from the durable store and dispatches them to
// registered handlers with retry and dead-letter semantics.
type Worker struct {
	l        log.Logger
	repo     Repository
	cfg      config.WorkerConfig
	notifier FailureNotifier

	mu       sync.RWMutex
	handlers map[JobType]Handler
}

func NewWorker(l log.Logger, repo Repository, cfg config.WorkerConfig, notifier FailureNotifier) *Worker {
	return &Worker{
		l:        l,
		repo:     repo,
		cfg:      cfg,
		notifier: notifier,
		handlers: make(map[JobType]Handler),
	}
}

// Register binds a handler to a job type. Must be called before Run.
func (w *Worker) Register(jobType JobType, h Handler) {
	w.mu.Lock()
	w.handlers[jobType] = h
	w.mu.Unlock()
}

// Handles reports whether a handler is bound for the job type.
func (w *Worker) Handles(jobType JobType) bool {
	w.mu.RLock()
	_, ok := w.handlers[jobType]
	w.mu.RUnlock()
	return ok
}

// Enqueue inserts jobs into the durable store. Duplicate dedup keys are
// silently skipped.
func (w *Worker) Enqueue(ctx context.Context, jobs ...Job) error {
	for _, job := range jobs {
		if job.MaxAttempts == 0 {
			job.MaxAttempts = w.cfg.MaxAttempts
		}
		inserted, err := w.repo.Enqueue(ctx, job)
		if err != nil {
			return err
		}
		if !inserted {
			w.l.Debugf(ctx, "queue.Worker.Enqueue: duplicate job skipped, key=%s", job.DedupKey)
		}
	}
	return nil
}

// Run starts the worker pool and blocks until ctx is canceled. In-flight
// jobs finish before Run returns.
func (w *Worker) Run(ctx context.Context) {
	w.l.Infof(ctx, "queue.Worker: starting %d workers, poll interval %s", w.cfg.Concurrency, w.cfg.PollInterval)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.reapLoop(ctx)
	}()

	wg.Wait()
	w.l.Info(ctx, "queue.Worker: stopped")
}

func (w *Worker) loop(ctx context.Context, id int) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		// Drain due jobs before going back to sleep.
		for {
			if ctx.Err() != nil {
				return
			}
			job, err := w.repo.Claim(ctx)
			if err != nil {
				w.l.Errorf(ctx, "queue.Worker[%d]: claim: %v", id, err)
				break
			}
			if job.ID == "" {
				break
			}
			w.execute(ctx, job)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// reapLoop periodically returns jobs abandoned by crashed workers to pending.
func (w *Worker) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.repo.RequeueStale(ctx)
			if err != nil {
				w.l.Errorf(ctx, "queue.Worker: requeue stale: %v", err)
				continue
			}
			if n > 0 {
				w.l.Warnf(ctx, "queue.Worker: requeued %d stale jobs", n)
			}
		}
	}
}

func (w *Worker) execute(ctx context.Context, job Job) {
	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		w.l.Errorf(ctx, "queue.Worker: no handler for type %s, job %s", job.Type, job.ID)
		w.fail(ctx, job, ErrUnknownJobType.Error())
		return
	}

	err := handler(ctx, job)
	if err == nil {
		if err := w.repo.Complete(ctx, job.ID); err != nil {
			w.l.Errorf(ctx, "queue.Worker: complete job %s: %v", job.ID, err)
		}
		return
	}

	if IsPermanent(err) || job.Attempts >= job.MaxAttempts {
		w.fail(ctx, job, err.Error())
		return
	}

	delay := backoffDelay(w.cfg.BackoffBase, w.cfg.BackoffCap, job.Attempts)
	w.l.Warnf(ctx, "queue.Worker: job %s (%s) attempt %d/%d failed, retrying in %s: %v",
		job.ID, job.Type, job.Attempts, job.MaxAttempts, delay, err)

	if err := w.repo.Retry(ctx, RetryOptions{
		ID:        job.ID,
		RunAt:     time.Now().Add(delay),
		LastError: err.Error(),
	}); err != nil {
		w.l.Errorf(ctx, "queue.Worker: retry job %s: %v", job.ID, err)
	}
}

// fail retires the job, then tells the notifier. The dead status is committed
// first so the failure notification never precedes the state it reports.
func (w *Worker) fail(ctx context.Context, job Job, lastError string) {
	if err := w.repo.MarkDead(ctx, job.ID, lastError); err != nil {
		w.l.Errorf(ctx, "queue.Worker: mark dead job %s: %v", job.ID, err)
		return
	}
	w.l.Errorf(ctx, "queue.Worker: job %s (%s) dead after %d attempts: %s", job.ID, job.Type, job.Attempts, lastError)
	if w.notifier != nil {
		w.notifier.JobFailed(ctx, job, lastError)
	}
}

var _ Enqueuer = (*Worker)(nil)
