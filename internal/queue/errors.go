package queue

import "errors"

var (
	// ErrUnknownJobType means no handler is registered for a claimed job.
	ErrUnknownJobType = errors.New("unknown job type")
)

// permanentError marks a handler failure that retrying cannot fix, such as
// malformed payloads or a resource that no longer exists.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the worker sends the job straight to dead
// instead of rescheduling it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent. Handler errors
// without the marker are treated as transient and retried.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
