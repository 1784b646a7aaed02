package openai

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultVoice = "alloy"

// GenerateSpeech synthesizes req.Text with the configured speech model and
// returns mp3 bytes.
func (c *GraphOpenAIClient) GenerateSpeech(ctx context.Context, req ai.SpeechRequest) ([]byte, error) {
	if c.SpeechClient == nil {
		return nil, fmt.Errorf("speech: %w", ai.ErrNoClient)
	}

	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}

	params := openai.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          openai.SpeechModel(c.speechModel),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if req.Speed > 0 {
		params.Speed = openai.Float(req.Speed)
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	start := time.Now()
	// voice is set on the raw body so custom voice ids pass through untouched.
	resp, err := c.SpeechClient.Audio.Speech.New(ctx, params, option.WithJSONSet("voice", voice))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	c.RecordMetrics(ai.ModelMetrics{DurationMs: time.Since(start).Milliseconds()})

	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: no audio", ai.ErrEmptyResponse)
	}
	return audio, nil
}
