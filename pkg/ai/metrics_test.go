package ai

import (
	"sync"
	"testing"
)

func TestMetricsRecorder(t *testing.T) {
	var r MetricsRecorder

	r.RecordMetrics(ModelMetrics{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, DurationMs: 500})
	r.RecordMetrics(ModelMetrics{InputTokens: 20, OutputTokens: 10, TotalTokens: 30, DurationMs: 1000})

	got := r.GetMetrics()
	if got.InputTokens != 30 || got.OutputTokens != 15 || got.TotalTokens != 45 {
		t.Fatalf("unexpected token totals: %+v", got)
	}
	if got.DurationMs != 1500 {
		t.Fatalf("DurationMs = %d, want 1500", got.DurationMs)
	}
	if got.TokenPerSecond != 30 {
		t.Fatalf("TokenPerSecond = %v, want 30", got.TokenPerSecond)
	}

	r.ResetMetrics()
	if got := r.GetMetrics(); got != (ModelMetrics{}) {
		t.Fatalf("expected zero metrics after reset, got %+v", got)
	}
}

func TestMetricsRecorderConcurrent(t *testing.T) {
	var r MetricsRecorder
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordMetrics(ModelMetrics{TotalTokens: 2, DurationMs: 1})
		}()
	}
	wg.Wait()

	if got := r.GetMetrics().TotalTokens; got != 100 {
		t.Fatalf("TotalTokens = %d, want 100", got)
	}
}
