package util

import (
	"context"
	"errors"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/job"
)

// RetryOptions controls RetryWithContext.
//
// MaxTries <= 0 means a single attempt. Backoff is the pause before the
// second attempt and doubles after every failure. A nil Retryable retries
// every error except context cancellation.
type RetryOptions struct {
	MaxTries  int
	Backoff   time.Duration
	Retryable func(error) bool
}

// RetryWithContext calls fn until it returns a nil error, the attempts are
// exhausted, the error is not retryable, or ctx is done. Returns ctx.Err()
// if the context ends while waiting, otherwise the last error.
func RetryWithContext[T any](ctx context.Context, opts RetryOptions, fn func(context.Context) (T, error)) (T, error) {
	maxTries := opts.MaxTries
	if maxTries <= 0 {
		maxTries = 1
	}
	backoff := opts.Backoff

	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if i > 0 && backoff > 0 {
			if err := job.Sleep(ctx, backoff); err != nil {
				return zero, err
			}
			backoff *= 2
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err
		if opts.Retryable != nil && !opts.Retryable(err) {
			break
		}
	}
	return zero, lastErr
}
