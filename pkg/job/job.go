// Package job drives remote long-running jobs: submit once, then poll the
// returned handle until the job reaches a terminal state.
package job

import "context"

// Status is the state a remote job reports.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

// Terminal reports whether no further polling can change the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Handle identifies a submitted job, typically a status URL.
type Handle string

// Result is one observation of a job.
type Result struct {
	Status Status
	Output string
	Error  string
}

// Client is a remote job API. Submit is not idempotent and is called once
// per Run; Fetch is read-only and safe to repeat.
type Client interface {
	Submit(ctx context.Context, input string) (Handle, error)
	Fetch(ctx context.Context, handle Handle) (Result, error)
}
