package job

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network or non-2xx failures talking to the job API.
	ErrTransport = errors.New("job transport error")
	// ErrSubmission is returned when a job could not be submitted.
	ErrSubmission = errors.New("job submission failed")
	// ErrJob is matched by every JobError.
	ErrJob = errors.New("job failed")
	// ErrTimeout is returned when the attempt limit or the context deadline
	// is reached before the job finishes.
	ErrTimeout = errors.New("job timed out")
)

// JobError is a terminal failure reported by the remote job.
type JobError struct {
	Handle Handle
	Status Status
	Reason string
}

func (e *JobError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("job %s %s", e.Handle, e.Status)
	}
	return fmt.Sprintf("job %s %s: %s", e.Handle, e.Status, e.Reason)
}

func (e *JobError) Is(target error) bool {
	return target == ErrJob
}
