package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetryWithContext_SuccessImmediate(t *testing.T) {
	result, err := RetryWithContext(context.Background(), RetryOptions{MaxTries: 3}, func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != 42 {
		t.Fatalf("expected 42, got %d", result)
	}
}

func TestRetryWithContext_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result, err := RetryWithContext(context.Background(), RetryOptions{MaxTries: 3, Backoff: time.Millisecond}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 99, nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != 99 {
		t.Fatalf("expected 99, got %d", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_PersistentFailure(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), RetryOptions{MaxTries: 3}, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_MaxTriesZeroOrNegative(t *testing.T) {
	for _, maxTries := range []int{0, -1} {
		calls := 0
		_, _ = RetryWithContext(context.Background(), RetryOptions{MaxTries: maxTries}, func(context.Context) (int, error) {
			calls++
			return 0, errTransient
		})
		if calls != 1 {
			t.Fatalf("maxTries=%d: expected 1 call, got %d", maxTries, calls)
		}
	}
}

func TestRetryWithContext_NotRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	_, err := RetryWithContext(context.Background(), RetryOptions{
		MaxTries:  5,
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
	}, func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithContext_StopsOnContextError(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), RetryOptions{MaxTries: 5}, func(context.Context) (int, error) {
		calls++
		return 0, context.Canceled
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithContext_CanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := RetryWithContext(ctx, RetryOptions{MaxTries: 3, Backoff: time.Hour}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithContext_AlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, RetryOptions{MaxTries: 3}, func(context.Context) (int, error) {
		calls++
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 calls, got %d", calls)
	}
}
