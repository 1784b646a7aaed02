// Package ocr talks to a remote OCR service that runs documents as
// asynchronous prediction jobs.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/job"
)

const (
	DefaultBaseURL  = "https://api.replicate.com/v1"
	DefaultInputKey = "document"

	maxErrorBody = 4 << 10
)

// Client submits documents to a predictions API and reads back job state.
// It implements job.Client.
type Client struct {
	baseURL    string
	token      string
	version    string
	inputKey   string
	httpClient *http.Client
}

// NewClientParams configures a Client. Token and Version are required by
// the remote service; BaseURL and InputKey have defaults.
type NewClientParams struct {
	BaseURL    string
	Token      string
	Version    string
	InputKey   string
	HTTPClient *http.Client
}

// NewClient creates an OCR job client.
func NewClient(params NewClientParams) *Client {
	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	inputKey := params.InputKey
	if inputKey == "" {
		inputKey = DefaultInputKey
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		token:      params.Token,
		version:    params.Version,
		inputKey:   inputKey,
		httpClient: httpClient,
	}
}

type predictionRequest struct {
	Version string            `json:"version"`
	Input   map[string]string `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// Submit creates a prediction for the document at documentURL and returns
// the URL to poll.
func (c *Client) Submit(ctx context.Context, documentURL string) (job.Handle, error) {
	body, err := json.Marshal(predictionRequest{
		Version: c.version,
		Input:   map[string]string{c.inputKey: documentURL},
	})
	if err != nil {
		return "", err
	}

	var p prediction
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body), &p); err != nil {
		return "", err
	}

	handle := p.URLs.Get
	if handle == "" && p.ID != "" {
		handle = c.baseURL + "/predictions/" + url.PathEscape(p.ID)
	}
	if handle == "" {
		return "", fmt.Errorf("%w: prediction response has no status url", job.ErrTransport)
	}
	return job.Handle(handle), nil
}

// Fetch reads the current state of a prediction.
func (c *Client) Fetch(ctx context.Context, handle job.Handle) (job.Result, error) {
	var p prediction
	if err := c.do(ctx, http.MethodGet, string(handle), nil, &p); err != nil {
		return job.Result{}, err
	}

	output, err := decodeOutput(p.Output)
	if err != nil {
		return job.Result{}, fmt.Errorf("%w: decode output: %v", job.ErrTransport, err)
	}

	return job.Result{
		Status: job.Status(p.Status),
		Output: output,
		Error:  decodeError(p.Error),
	}, nil
}

// FetchText downloads a plain text output that the service returned as a URL.
func (c *Client) FetchText(ctx context.Context, outputURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outputURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", job.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: GET %s: %s", job.ErrTransport, outputURL, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read output: %v", job.ErrTransport, err)
	}
	return string(content), nil
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \n\t") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (c *Client) do(ctx context.Context, method string, target string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", job.ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: %s: %s", job.ErrTransport, method, target, resp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", job.ErrTransport, target, err)
	}
	return nil
}

// decodeOutput accepts null, a string, or a list of strings joined without
// separator, which is how streaming models return their tokens.
func decodeOutput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}

func decodeError(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
