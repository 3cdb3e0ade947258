package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Default models for the chat-completions provider.
const (
	defaultOpenAIChatModel  = "gpt-4o-mini"
	defaultOpenAIEmbedModel = "text-embedding-3-small"
)

// OpenAIClient implements text generation and embedding over the
// chat-completions API. Also serves OpenAI-compatible endpoints via a
// custom base URL.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	retry          retryPolicy
}

// NewOpenAIClient creates an OpenAI client from configuration.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = defaultOpenAIChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultOpenAIEmbedModel
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(apiCfg),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		retry:          cfg.retryPolicy(),
	}
}

// Name returns the provider selector.
func (c *OpenAIClient) Name() Name { return OpenAI }

// SupportsTextGeneration returns true.
func (c *OpenAIClient) SupportsTextGeneration() bool { return true }

// SupportsEmbedding returns true.
func (c *OpenAIClient) SupportsEmbedding() bool { return true }

// SupportsNativeJSON returns true: response_format json_object.
func (c *OpenAIClient) SupportsNativeJSON() bool { return true }

// Close is a no-op.
func (c *OpenAIClient) Close() error { return nil }

// Complete performs a single-turn chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System() != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System(),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt(),
	})

	apiReq := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
	}
	if req.MaxTokens() > 0 {
		apiReq.MaxTokens = req.MaxTokens()
	}
	if req.JSONMode() {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var resp openai.ChatCompletionResponse
	err := c.retry.do(ctx, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, apiReq)
		return callErr
	}, c.isRetryable)
	if err != nil {
		return CompletionResponse{}, c.wrapError("completion", err)
	}

	// No choices is not an error: the uniform contract returns empty text.
	if len(resp.Choices) == 0 {
		return NewCompletionResponse("", "", NewUsage(
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens,
		)), nil
	}

	usage := NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return NewCompletionResponse(
		resp.Choices[0].Message.Content,
		string(resp.Choices[0].FinishReason),
		usage,
	), nil
}

// Embed generates embeddings for the given texts in a single API call.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	apiReq := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	err := c.retry.do(ctx, func() error {
		var callErr error
		resp, callErr = c.client.CreateEmbeddings(ctx, apiReq)
		if callErr != nil {
			return callErr
		}
		if len(resp.Data) != len(texts) {
			return NewProviderError(OpenAI, "embedding", 0,
				"embedding response count mismatch", nil)
		}
		return nil
	}, c.isRetryable)
	if err != nil {
		return nil, c.wrapError("embedding", err)
	}

	vectors := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vectors[i][j] = float64(v)
		}
	}
	return vectors, nil
}

// isRetryable determines if an error should be retried.
func (c *OpenAIClient) isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}

// wrapError wraps an OpenAI SDK error into a ProviderError.
func (c *OpenAIClient) wrapError(operation string, err error) error {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(OpenAI, operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(OpenAI, operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(OpenAI, operation, 0, err.Error(), err)
}

// retryPolicy executes calls with exponential backoff.
type retryPolicy struct {
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

func (p retryPolicy) do(ctx context.Context, fn func() error, retryable func(error) bool) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return lastErr
}

// Ensure OpenAIClient implements the interface.
var _ Client = (*OpenAIClient)(nil)
