package ollama

import (
	"context"

	"github.com/cyber-phys/hyperplex/pkg/loader"

	"github.com/ollama/ollama/api"
)

// GenerateImageDescription sends a vision chat request with a base64 image and
// returns the model's textual description.
func (c *GraphOllamaClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	b64 loader.GraphBase64,
) (string, error) {
	raw, err := b64.Bytes()
	if err != nil {
		return "", err
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.imageModel,
		Messages: []api.Message{
			{Role: "system", Content: prompt},
			{Role: "user", Images: []api.ImageData{raw}},
		},
		Stream: &stream,
	}

	return c.chat(ctx, req)
}
