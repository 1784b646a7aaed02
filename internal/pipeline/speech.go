package pipeline

import (
	"context"
	"fmt"

	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/chunk"
	"github.com/cyber-phys/hyperplex/pkg/logger"
)

// AudioName is the file name of the index-th synthesized chunk of name.
func AudioName(name string, index int) string {
	return fmt.Sprintf("%s_%d.mp3", name, index)
}

// Speak splits text into chunks of at most MaxChunkChars and synthesizes
// them in order, handing each result to the audio sink. It returns the
// locations written so far; the first synthesis or sink error stops it.
func (p *Pipeline) Speak(ctx context.Context, name string, text string) ([]string, error) {
	if p.synthesizer == nil || p.audio == nil {
		return nil, fmt.Errorf("speak: %w", ErrNotConfigured)
	}

	var locations []string
	index := 0
	for part := range chunk.Chunks(text, p.maxChunkChars) {
		if part == "" {
			continue
		}
		audio, err := p.synthesizer.GenerateSpeech(ctx, ai.SpeechRequest{
			Voice: p.voice,
			Text:  part,
			Speed: p.speed,
		})
		if err != nil {
			return locations, fmt.Errorf("synthesize chunk %d of %s: %w", index, name, err)
		}

		loc, err := p.audio.Put(ctx, AudioName(name, index), audio)
		if err != nil {
			return locations, fmt.Errorf("store chunk %d of %s: %w", index, name, err)
		}
		logger.Debug("[Pipeline] Audio chunk written", "name", name, "index", index, "chars", len(part), "location", loc)

		locations = append(locations, loc)
		index++
	}

	logger.Info("[Pipeline] Speech synthesized", "name", name, "chunks", len(locations))
	return locations, nil
}
