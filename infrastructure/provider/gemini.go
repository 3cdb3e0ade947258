package provider

import (
	"context"

	"google.golang.org/genai"
)

// Default models for the Gemini family.
const (
	defaultGeminiChatModel  = "gemini-2.0-flash"
	defaultGeminiEmbedModel = "text-embedding-004"
)

// GeminiClient implements text generation and embedding over the Gemini
// API. It serves two selectors: the assistant-studio backend
// (API-key auth) and the enterprise Vertex backend (project + region).
type GeminiClient struct {
	client         *genai.Client
	name           Name
	chatModel      string
	embeddingModel string
}

// NewGeminiClient creates a Gemini client for the assistant-studio
// backend.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, NewProviderError(Gemini, "construct", 0, err.Error(), err)
	}
	return newGeminiClient(client, Gemini, cfg), nil
}

// NewVertexClient creates a Gemini client for the enterprise Vertex
// backend. Credentials come from application default credentials.
func NewVertexClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, NewProviderError(Vertex, "construct", 0, err.Error(), err)
	}
	return newGeminiClient(client, Vertex, cfg), nil
}

func newGeminiClient(client *genai.Client, name Name, cfg Config) *GeminiClient {
	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = defaultGeminiChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultGeminiEmbedModel
	}
	return &GeminiClient{
		client:         client,
		name:           name,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// Name returns the provider selector.
func (c *GeminiClient) Name() Name { return c.name }

// SupportsTextGeneration returns true.
func (c *GeminiClient) SupportsTextGeneration() bool { return true }

// SupportsEmbedding returns true.
func (c *GeminiClient) SupportsEmbedding() bool { return true }

// SupportsNativeJSON returns true: response MIME type application/json.
func (c *GeminiClient) SupportsNativeJSON() bool { return true }

// Close is a no-op; the SDK holds no persistent connections.
func (c *GeminiClient) Close() error { return nil }

// Complete performs a single-turn completion.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System() != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System(), genai.RoleUser)
	}
	if req.MaxTokens() > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens())
	}
	if req.JSONMode() {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, genai.Text(req.Prompt()), cfg)
	if err != nil {
		return CompletionResponse{}, NewProviderError(c.name, "completion", 0, err.Error(), err)
	}

	var usage Usage
	if resp.UsageMetadata != nil {
		usage = NewUsage(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
			int(resp.UsageMetadata.TotalTokenCount),
		)
	}

	var finishReason string
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	// Text() flattens the first candidate's text parts; empty is fine.
	return NewCompletionResponse(resp.Text(), finishReason, usage), nil
}

// Embed generates embeddings for the given texts in a single API call.
func (c *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, nil)
	if err != nil {
		return nil, NewProviderError(c.name, "embedding", 0, err.Error(), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, NewProviderError(c.name, "embedding", 0, "embedding response count mismatch", nil)
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vectors[i][j] = float64(v)
		}
	}
	return vectors, nil
}

// Ensure GeminiClient implements the interface.
var _ Client = (*GeminiClient)(nil)
