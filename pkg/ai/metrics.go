package ai

import (
	"math"
	"sync"
)

// MetricsRecorder accumulates ModelMetrics across requests. It is embedded
// by the provider clients and is safe for concurrent use.
type MetricsRecorder struct {
	mu      sync.Mutex
	metrics ModelMetrics
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (r *MetricsRecorder) ResetMetrics() {
	r.mu.Lock()
	r.metrics = ModelMetrics{}
	r.mu.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (r *MetricsRecorder) GetMetrics() ModelMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

// RecordMetrics adds m to the running totals and recomputes throughput.
func (r *MetricsRecorder) RecordMetrics(m ModelMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics.InputTokens += m.InputTokens
	r.metrics.OutputTokens += m.OutputTokens
	r.metrics.TotalTokens += m.TotalTokens
	r.metrics.DurationMs += m.DurationMs

	if r.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(r.metrics.TotalTokens) * 1000.0) / float64(r.metrics.DurationMs)
		r.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
