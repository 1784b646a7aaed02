package ollama

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cyber-phys/hyperplex/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 2

// GraphOllamaClient implements ai.Annotator against a local or hosted Ollama
// server. Speech synthesis is not offered by Ollama.
type GraphOllamaClient struct {
	chatModel  string
	imageModel string

	reqLock *semaphore.Weighted

	ai.MetricsRecorder

	Client *api.Client
}

// NewGraphOllamaClientParams contains configuration options for creating a new GraphOllamaClient.
type NewGraphOllamaClientParams struct {
	ChatModel  string
	ImageModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64

	// HTTPClient overrides the transport; the bearer header is still added.
	HTTPClient *http.Client
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewGraphOllamaClient creates a new Ollama-based client. An empty BaseURL
// falls back to OLLAMA_HOST, or the local default when that is unset.
func NewGraphOllamaClient(
	params NewGraphOllamaClientParams,
) (*GraphOllamaClient, error) {
	u := envconfig.Host()
	if params.BaseURL != "" {
		parsed, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
		u = parsed
	}

	base := http.DefaultTransport
	if params.HTTPClient != nil && params.HTTPClient.Transport != nil {
		base = params.HTTPClient.Transport
	}
	headers := map[string]string{}
	if params.ApiKey != "" {
		headers["Authorization"] = "Bearer " + params.ApiKey
	}
	httpClient := &http.Client{
		Transport: &headerTransport{headers: headers, rt: base},
	}

	cli := api.NewClient(u, httpClient)

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}

	return &GraphOllamaClient{
		chatModel:  params.ChatModel,
		imageModel: params.ImageModel,

		reqLock: semaphore.NewWeighted(maxReq),

		Client: cli,
	}, nil
}

func (c *GraphOllamaClient) chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	c.RecordMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if final.Message.Content == "" {
		return "", ai.ErrEmptyResponse
	}
	return final.Message.Content, nil
}
