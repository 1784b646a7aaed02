package ai

import (
	"context"

	"github.com/cyber-phys/hyperplex/pkg/loader"
)

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// Annotator produces natural-language annotations for evidence. Any error
// means no annotation is available; callers decide whether that is fatal.
type Annotator interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error
	GenerateImageDescription(
		ctx context.Context,
		prompt string,
		base64 loader.GraphBase64,
	) (string, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}

// SpeechRequest is one synthesis call. Text should already be chunked to
// the service's payload limit.
type SpeechRequest struct {
	Voice        string
	Text         string
	Speed        float64
	Instructions string
}

// Synthesizer turns text into audio bytes.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)
}
