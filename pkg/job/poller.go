package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/logger"
)

const (
	DefaultInitialDelay = 2 * time.Second
	DefaultInterval     = time.Second
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Poller.
type Options struct {
	// InitialDelay is waited once after submission before the first fetch.
	InitialDelay time.Duration
	// Interval is waited between fetches.
	Interval time.Duration
	// MaxAttempts caps the number of fetches. Zero means no cap; the
	// context deadline still applies.
	MaxAttempts int
	Sleep       SleepFunc
}

// Poller runs jobs against a Client.
type Poller struct {
	client Client
	opts   Options
}

// NewPoller creates a poller. Zero durations fall back to the defaults.
func NewPoller(client Client, opts Options) *Poller {
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	return &Poller{client: client, opts: opts}
}

// Run submits input and polls until the job succeeds, fails or runs out of
// attempts. It returns the job output on success.
func (p *Poller) Run(ctx context.Context, input string) (string, error) {
	handle, err := p.client.Submit(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	logger.Debug("[Poller] Job submitted", "handle", handle)

	return p.Wait(ctx, handle)
}

// Wait polls an already submitted job.
func (p *Poller) Wait(ctx context.Context, handle Handle) (string, error) {
	if err := p.pause(ctx, handle, p.opts.InitialDelay); err != nil {
		return "", err
	}

	for attempt := 1; ; attempt++ {
		res, err := p.client.Fetch(ctx, handle)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", p.contextError(handle, ctxErr)
			}
			return "", fmt.Errorf("fetch job %s: %w", handle, err)
		}

		if res.Status.Terminal() {
			if res.Status != StatusSucceeded {
				return "", &JobError{Handle: handle, Status: res.Status, Reason: res.Error}
			}
			logger.Debug("[Poller] Job succeeded", "handle", handle, "attempts", attempt)
			return res.Output, nil
		}

		if p.opts.MaxAttempts > 0 && attempt >= p.opts.MaxAttempts {
			return "", fmt.Errorf("%w: job %s still %s after %d attempts", ErrTimeout, handle, res.Status, attempt)
		}
		logger.Debug("[Poller] Job pending", "handle", handle, "status", res.Status, "attempt", attempt)

		if err := p.pause(ctx, handle, p.opts.Interval); err != nil {
			return "", err
		}
	}
}

func (p *Poller) pause(ctx context.Context, handle Handle, d time.Duration) error {
	if err := p.opts.Sleep(ctx, d); err != nil {
		return p.contextError(handle, err)
	}
	return nil
}

func (p *Poller) contextError(handle Handle, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: job %s: %w", ErrTimeout, handle, err)
	}
	return err
}

// Sleep is the default SleepFunc: it waits for d on a timer and returns
// ctx.Err() if the context ends first. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
