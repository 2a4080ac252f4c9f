package fashion

import (
	"errors"
	"fmt"
)

// Sentinel errors for fashion API operations.
var (
	// ErrJobFailed means the remote service reported a terminal failure
	// for the generation job.
	ErrJobFailed = errors.New("fashion: generation job failed")
	// ErrTimeout means polling exhausted its attempt budget or deadline
	// before the job reached a terminal state. Distinct from ErrJobFailed:
	// the job may still be running remotely.
	ErrTimeout     = errors.New("fashion: timed out waiting for job")
	ErrRateLimited = errors.New("fashion: rate limited by server")
	ErrBadRequest  = errors.New("fashion: bad request")
	ErrServer      = errors.New("fashion: server error")
	ErrNoOutput    = errors.New("fashion: job completed without output images")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "run", "pollStatus", "dressUp"
	Model string // If applicable
	JobID string // If applicable
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.JobID != "":
		return fmt.Sprintf("fashion %s [%s/%s]: %v", e.Op, e.Model, e.JobID, e.Err)
	case e.Model != "":
		return fmt.Sprintf("fashion %s [%s]: %v", e.Op, e.Model, e.Err)
	default:
		return fmt.Sprintf("fashion %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, model, jobID string, err error) error {
	return &Error{
		Op:    op,
		Model: model,
		JobID: jobID,
		Err:   err,
	}
}
