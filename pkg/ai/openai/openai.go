package openai

import (
	"github.com/cyber-phys/hyperplex/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 4

// GraphOpenAIClient talks to OpenAI-compatible endpoints. Chat, vision and
// speech may live on different base URLs with different keys; a client for
// an endpoint without a key is nil and its operations return ai.ErrNoClient.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	chatModel   string
	imageModel  string
	speechModel string

	reqLock *semaphore.Weighted

	ai.MetricsRecorder

	ChatClient   *openai.Client
	ImageClient  *openai.Client
	SpeechClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration for a GraphOpenAIClient.
//
// ChatModel is used for summaries and concept extraction, ImageModel for
// screenshot descriptions and SpeechModel for synthesis. Each URL/key pair
// configures one endpoint; an empty URL means the OpenAI default.
type NewGraphOpenAIClientParams struct {
	ChatModel   string
	ImageModel  string
	SpeechModel string

	ChatURL   string
	ChatKey   string
	ImageURL  string
	ImageKey  string
	SpeechURL string
	SpeechKey string

	MaxConcurrentRequests int64
}

// NewGraphOpenAIClient creates a client from params.
//
// Example:
//
//	client := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ChatModel:  "gpt-4o-mini",
//		ImageModel: "gpt-4o",
//		ChatKey:    os.Getenv("AI_CHAT_KEY"),
//		ImageKey:   os.Getenv("AI_IMAGE_KEY"),
//	})
func NewGraphOpenAIClient(params NewGraphOpenAIClientParams) *GraphOpenAIClient {
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}

	return &GraphOpenAIClient{
		chatModel:   params.ChatModel,
		imageModel:  params.ImageModel,
		speechModel: params.SpeechModel,

		reqLock: semaphore.NewWeighted(maxReq),

		ChatClient:   newOpenaiClient(params.ChatURL, params.ChatKey),
		ImageClient:  newOpenaiClient(params.ImageURL, params.ImageKey),
		SpeechClient: newOpenaiClient(params.SpeechURL, params.SpeechKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
