package job

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClient struct {
	submitErr error
	results   []Result
	fetchErr  error
	submits   int
	fetches   int
}

func (c *stubClient) Submit(ctx context.Context, input string) (Handle, error) {
	c.submits++
	if c.submitErr != nil {
		return "", c.submitErr
	}
	return Handle("https://jobs.example/" + input), nil
}

func (c *stubClient) Fetch(ctx context.Context, handle Handle) (Result, error) {
	c.fetches++
	if c.fetchErr != nil {
		return Result{}, c.fetchErr
	}
	idx := c.fetches - 1
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	return c.results[idx], nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return ctx.Err()
}

func newTestPoller(c Client, rec *sleepRecorder, maxAttempts int) *Poller {
	return NewPoller(c, Options{
		InitialDelay: 2 * time.Second,
		Interval:     time.Second,
		MaxAttempts:  maxAttempts,
		Sleep:        rec.sleep,
	})
}

func TestPollerSucceedsAfterProcessing(t *testing.T) {
	client := &stubClient{results: []Result{
		{Status: StatusProcessing},
		{Status: StatusProcessing},
		{Status: StatusSucceeded, Output: "X"},
	}}
	rec := &sleepRecorder{}

	out, err := newTestPoller(client, rec, 0).Run(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "X" {
		t.Fatalf("Run() = %q, want %q", out, "X")
	}
	if client.submits != 1 {
		t.Fatalf("expected 1 submit, got %d", client.submits)
	}
	if client.fetches != 3 {
		t.Fatalf("expected 3 fetches, got %d", client.fetches)
	}

	want := []time.Duration{2 * time.Second, time.Second, time.Second}
	if len(rec.calls) != len(want) {
		t.Fatalf("sleeps = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("sleeps = %v, want %v", rec.calls, want)
		}
	}
}

func TestPollerFailedStopsImmediately(t *testing.T) {
	client := &stubClient{results: []Result{
		{Status: StatusFailed, Error: "bad pdf"},
		{Status: StatusSucceeded, Output: "never"},
	}}
	rec := &sleepRecorder{}

	_, err := newTestPoller(client, rec, 0).Run(context.Background(), "doc")
	if !errors.Is(err, ErrJob) {
		t.Fatalf("expected ErrJob, got %v", err)
	}
	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected *JobError, got %T", err)
	}
	if jobErr.Reason != "bad pdf" {
		t.Fatalf("reason = %q, want %q", jobErr.Reason, "bad pdf")
	}
	if client.fetches != 1 {
		t.Fatalf("expected 1 fetch, got %d", client.fetches)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("expected only the initial delay, got %v", rec.calls)
	}
}

func TestPollerCanceledJobIsJobError(t *testing.T) {
	client := &stubClient{results: []Result{{Status: StatusCanceled}}}
	_, err := newTestPoller(client, &sleepRecorder{}, 0).Run(context.Background(), "doc")
	if !errors.Is(err, ErrJob) {
		t.Fatalf("expected ErrJob, got %v", err)
	}
}

func TestPollerSubmissionError(t *testing.T) {
	transport := errors.New("connection refused")
	client := &stubClient{submitErr: transport}
	rec := &sleepRecorder{}

	_, err := newTestPoller(client, rec, 0).Run(context.Background(), "doc")
	if !errors.Is(err, ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
	if !errors.Is(err, transport) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if client.submits != 1 {
		t.Fatalf("submission must not be retried, got %d submits", client.submits)
	}
	if client.fetches != 0 || len(rec.calls) != 0 {
		t.Fatal("poller fetched or slept after failed submission")
	}
}

func TestPollerFetchErrorSurfaces(t *testing.T) {
	client := &stubClient{fetchErr: ErrTransport}
	_, err := newTestPoller(client, &sleepRecorder{}, 0).Run(context.Background(), "doc")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if client.fetches != 1 {
		t.Fatalf("fetch errors must not be retried, got %d fetches", client.fetches)
	}
}

func TestPollerMaxAttempts(t *testing.T) {
	client := &stubClient{results: []Result{{Status: StatusProcessing}}}
	rec := &sleepRecorder{}

	_, err := newTestPoller(client, rec, 4).Run(context.Background(), "doc")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if client.fetches != 4 {
		t.Fatalf("expected 4 fetches, got %d", client.fetches)
	}
}

func TestPollerContextCanceled(t *testing.T) {
	client := &stubClient{results: []Result{{Status: StatusStarting}}}
	ctx, cancel := context.WithCancel(context.Background())

	sleeps := 0
	p := NewPoller(client, Options{
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps++
			if sleeps == 3 {
				cancel()
			}
			return ctx.Err()
		},
	})

	_, err := p.Run(ctx, "doc")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatal("cancellation must not be reported as timeout")
	}
	if client.fetches != 2 {
		t.Fatalf("expected 2 fetches before cancel, got %d", client.fetches)
	}
}

func TestPollerDeadlineIsTimeout(t *testing.T) {
	client := &stubClient{results: []Result{{Status: StatusProcessing}}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewPoller(client, Options{
		InitialDelay: time.Millisecond,
		Interval:     5 * time.Millisecond,
	})

	_, err := p.Run(ctx, "doc")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}

func TestNewPollerDefaults(t *testing.T) {
	p := NewPoller(&stubClient{}, Options{MaxAttempts: -3})
	if p.opts.InitialDelay != DefaultInitialDelay {
		t.Fatalf("InitialDelay = %v", p.opts.InitialDelay)
	}
	if p.opts.Interval != DefaultInterval {
		t.Fatalf("Interval = %v", p.opts.Interval)
	}
	if p.opts.MaxAttempts != 0 {
		t.Fatalf("MaxAttempts = %d", p.opts.MaxAttempts)
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusStarting, false},
		{StatusProcessing, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
		{StatusCanceled, true},
		{Status("queued"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Fatalf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPollerNonTerminalStatusKeepsPolling(t *testing.T) {
	client := &stubClient{results: []Result{
		{Status: Status("queued")},
		{Status: StatusSucceeded, Output: "text"},
	}}

	out, err := newTestPoller(client, &sleepRecorder{}, 0).Run(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "text" || client.fetches != 2 {
		t.Fatalf("out = %q after %d fetches", out, client.fetches)
	}
}

func TestSleep(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		d    time.Duration
		want error
	}{
		{name: "elapsed", ctx: context.Background(), d: time.Millisecond},
		{name: "zero duration", ctx: context.Background(), d: 0},
		{name: "canceled while waiting", ctx: canceled, d: time.Hour, want: context.Canceled},
		{name: "canceled with zero duration", ctx: canceled, d: 0, want: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Sleep(tt.ctx, tt.d); !errors.Is(err, tt.want) {
				t.Fatalf("Sleep() = %v, want %v", err, tt.want)
			}
		})
	}
}
