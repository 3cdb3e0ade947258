package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// Messages API constants.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-sonnet-4-20250514"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 4096
)

// AnthropicClient implements text generation over the messages API.
// The vendor offers no embedding endpoint, so SupportsEmbedding is
// false and the embedding service substitutes a capable provider.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	retry      retryPolicy
	httpClient *http.Client
}

// NewAnthropicClient creates an Anthropic client from configuration.
func NewAnthropicClient(cfg Config) *AnthropicClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &AnthropicClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		retry:      cfg.retryPolicy(),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider selector.
func (c *AnthropicClient) Name() Name { return Anthropic }

// SupportsTextGeneration returns true.
func (c *AnthropicClient) SupportsTextGeneration() bool { return true }

// SupportsEmbedding returns false.
func (c *AnthropicClient) SupportsEmbedding() bool { return false }

// SupportsNativeJSON returns false: JSON output is prompt-enforced and
// fence-stripped by the generation service.
func (c *AnthropicClient) SupportsNativeJSON() bool { return false }

// Close is a no-op.
func (c *AnthropicClient) Close() error { return nil }

// anthropicRequest is the messages API request body.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the messages API response body.
type anthropicResponse struct {
	ID         string           `json:"id"`
	Content    []anthropicBlock `json:"content"`
	Model      string           `json:"model"`
	StopReason string           `json:"stop_reason"`
	Usage      anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete performs a single-turn completion via the messages API.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	maxTokens := req.MaxTokens()
	if maxTokens == 0 {
		maxTokens = anthropicMaxTokens
	}

	apiReq := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    req.System(),
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt()},
		},
	}

	var resp anthropicResponse
	err := c.retry.do(ctx, func() error {
		var callErr error
		resp, callErr = c.doRequest(ctx, apiReq)
		return callErr
	}, c.isRetryable)
	if err != nil {
		return CompletionResponse{}, err
	}

	// Concatenate text blocks; an empty list yields empty text, not an error.
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	usage := NewUsage(
		resp.Usage.InputTokens,
		resp.Usage.OutputTokens,
		resp.Usage.InputTokens+resp.Usage.OutputTokens,
	)
	return NewCompletionResponse(text, resp.StopReason, usage), nil
}

// Embed is unsupported on the messages provider.
func (c *AnthropicClient) Embed(context.Context, []string) ([][]float64, error) {
	return nil, ErrUnsupportedOperation
}

// doRequest performs one HTTP round trip to the messages endpoint.
func (c *AnthropicClient) doRequest(ctx context.Context, req anthropicRequest) (anthropicResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", 0, "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", 0, "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", 0, "request failed", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", httpResp.StatusCode, "read response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return anthropicResponse{}, NewProviderError(Anthropic, "completion", httpResp.StatusCode, apiErr.Error.Message, nil)
		}
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", httpResp.StatusCode, string(respBody), nil)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return anthropicResponse{}, NewProviderError(Anthropic, "completion", 0, "unmarshal response", err)
	}
	return apiResp, nil
}

// isRetryable determines if an error should be retried.
func (c *AnthropicClient) isRetryable(err error) bool {
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		return false
	}
	switch provErr.StatusCode() {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Ensure AnthropicClient implements the interface.
var _ Client = (*AnthropicClient)(nil)
