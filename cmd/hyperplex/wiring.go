package main

import (
	"context"
	"fmt"

	"github.com/cyber-phys/hyperplex/internal/config"
	"github.com/cyber-phys/hyperplex/internal/pipeline"
	"github.com/cyber-phys/hyperplex/internal/storage"
	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/ai/ollama"
	"github.com/cyber-phys/hyperplex/pkg/ai/openai"
	"github.com/cyber-phys/hyperplex/pkg/hypergraph"
	"github.com/cyber-phys/hyperplex/pkg/job"
	"github.com/cyber-phys/hyperplex/pkg/loader/ocr"
	"github.com/cyber-phys/hyperplex/pkg/loader/screenshot"
	"github.com/cyber-phys/hyperplex/pkg/logger"
)

// clients groups the AI backends selected by AI_ADAPTER. Speech always goes
// through the OpenAI-compatible endpoint since Ollama has no synthesis API.
type clients struct {
	annotator   ai.Annotator
	synthesizer ai.Synthesizer
}

func newClients(c config.AIConfig) (clients, error) {
	openaiClient := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
		ChatModel:   c.ChatModel,
		ImageModel:  c.ImageModel,
		SpeechModel: c.SpeechModel,

		ChatURL:   c.ChatURL,
		ChatKey:   c.ChatKey,
		ImageURL:  c.ImageURL,
		ImageKey:  c.ImageKey,
		SpeechURL: c.SpeechURL,
		SpeechKey: c.SpeechKey,

		MaxConcurrentRequests: c.MaxConcurrentRequests,
	})

	switch c.Adapter {
	case config.AdapterOllama:
		ollamaClient, err := ollama.NewGraphOllamaClient(ollama.NewGraphOllamaClientParams{
			ChatModel:  c.ChatModel,
			ImageModel: c.ImageModel,

			BaseURL: c.ChatURL,
			ApiKey:  c.ChatKey,

			MaxConcurrentRequests: c.MaxConcurrentRequests,
		})
		if err != nil {
			return clients{}, fmt.Errorf("could not create Ollama client: %w", err)
		}
		return clients{annotator: ollamaClient, synthesizer: openaiClient}, nil
	default:
		return clients{annotator: openaiClient, synthesizer: openaiClient}, nil
	}
}

func newAudioSink(ctx context.Context, c config.Config, dirOverride string) (storage.AudioSink, error) {
	if dirOverride == "" && c.S3.Enabled() {
		client, err := storage.NewS3Client(ctx, storage.S3Params{
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Sink(client, c.S3.Bucket, c.AudioDir), nil
	}

	dir := c.AudioDir
	if dirOverride != "" {
		dir = dirOverride
	}
	return storage.NewFileSink(dir), nil
}

func openStore(c config.Config) *hypergraph.Store {
	var opts []hypergraph.Option
	if forceReinit {
		opts = append(opts, hypergraph.WithForceReinit())
	}
	return hypergraph.Open(c.GraphPath, opts...)
}

type pipelineDeps struct {
	capture bool
	ocr     bool
	speech  bool
	audio   string
}

func newPipeline(ctx context.Context, c config.Config, deps pipelineDeps) (*pipeline.Pipeline, error) {
	backends, err := newClients(c.AI)
	if err != nil {
		return nil, err
	}

	params := pipeline.Params{
		Store:          openStore(c),
		Annotator:      backends.annotator,
		StructureModel: c.AI.StructureModel,
		Synthesizer:    backends.synthesizer,
		Voice:          c.AI.SpeechVoice,
		Speed:          c.AI.SpeechSpeed,
		MaxChunkChars:  c.MaxChunkChars,
	}

	if deps.capture {
		capturer, err := screenshot.NewCommandCapturer(screenshot.NewCommandCapturerParams{
			Command: c.Capture.Command,
		})
		if err != nil {
			return nil, err
		}
		params.Capturer = capturer
	}

	if deps.ocr {
		if c.OCR.Token == "" || c.OCR.Version == "" {
			return nil, fmt.Errorf("%w: OCR_TOKEN and OCR_VERSION are required for documents", config.ErrInvalid)
		}
		params.OCR = ocr.NewClient(ocr.NewClientParams{
			BaseURL: c.OCR.URL,
			Token:   c.OCR.Token,
			Version: c.OCR.Version,
		})
		params.Poll = job.Options{
			InitialDelay: c.OCR.InitialDelay,
			Interval:     c.OCR.Interval,
			MaxAttempts:  c.OCR.MaxAttempts,
		}
		params.SubmitRetries = c.OCR.SubmitRetries
	}

	if deps.speech {
		sink, err := newAudioSink(ctx, c, deps.audio)
		if err != nil {
			return nil, err
		}
		params.Audio = sink
	}

	logger.Debug("[CLI] Pipeline wired", "graph", c.GraphPath, "adapter", c.AI.Adapter, "capture", deps.capture, "ocr", deps.ocr, "speech", deps.speech)
	return pipeline.New(params), nil
}
