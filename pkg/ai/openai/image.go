package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/loader"

	"github.com/openai/openai-go/v3"
)

// GenerateImageDescription sends a vision request with a base64-encoded image
// and returns the model's textual description based on the provided prompt.
func (c *GraphOpenAIClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	base64 loader.GraphBase64,
) (string, error) {
	if c.ImageClient == nil {
		return "", fmt.Errorf("image: %w", ai.ErrNoClient)
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.imageModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: base64.DataURI(),
				}),
			}),
		},
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	start := time.Now()
	response, err := c.ImageClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	c.recordUsage(response, time.Since(start))

	return firstMessage(response)
}
