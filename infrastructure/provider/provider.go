// Package provider maps a uniform completion/embedding contract onto
// the supported AI vendor APIs.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Name identifies a supported provider.
type Name string

// Supported providers.
const (
	// Gemini is the assistant-studio style provider (API-key auth).
	Gemini Name = "gemini"
	// Vertex is the enterprise variant of Gemini (project + region).
	Vertex Name = "vertex"
	// OpenAI is the chat-completions style provider.
	OpenAI Name = "openai"
	// Anthropic is the messages style provider. Text generation only.
	Anthropic Name = "anthropic"
)

// ParseName parses a provider selector. Unknown selectors return false.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case Gemini, Vertex, OpenAI, Anthropic:
		return Name(s), true
	}
	return "", false
}

// ErrUnsupportedOperation indicates the provider lacks the requested
// capability (e.g. embeddings on a chat-only provider).
var ErrUnsupportedOperation = errors.New("operation not supported by provider")

// Client is the capability handle produced by the factory. Construction
// never performs a network call.
type Client interface {
	// Name returns the provider selector this client was built for.
	Name() Name

	// Complete performs a single-turn completion.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// Embed converts texts into embedding vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// SupportsTextGeneration reports whether Complete is available.
	SupportsTextGeneration() bool

	// SupportsEmbedding reports whether Embed is available.
	SupportsEmbedding() bool

	// SupportsNativeJSON reports whether the provider has a structured
	// output mode that constrains completions to JSON.
	SupportsNativeJSON() bool

	// Close releases any held resources.
	Close() error
}

// Message is a single chat message.
type Message struct {
	role    string
	content string
}

// NewMessage creates a Message.
func NewMessage(role, content string) Message {
	return Message{role: role, content: content}
}

// Role returns the message role (system, user, assistant).
func (m Message) Role() string { return m.role }

// Content returns the message text.
func (m Message) Content() string { return m.content }

// CompletionRequest describes a single-turn completion.
type CompletionRequest struct {
	system    string
	prompt    string
	maxTokens int
	jsonMode  bool
}

// CompletionOption configures a CompletionRequest.
type CompletionOption func(*CompletionRequest)

// WithSystem sets the system instruction.
func WithSystem(system string) CompletionOption {
	return func(r *CompletionRequest) { r.system = system }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) CompletionOption {
	return func(r *CompletionRequest) { r.maxTokens = n }
}

// WithJSONMode enables the provider's structured output mode where
// available. Providers without one ignore the flag; the caller handles
// fencing there.
func WithJSONMode() CompletionOption {
	return func(r *CompletionRequest) { r.jsonMode = true }
}

// NewCompletionRequest creates a CompletionRequest for the prompt.
func NewCompletionRequest(prompt string, opts ...CompletionOption) CompletionRequest {
	r := CompletionRequest{prompt: prompt}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// System returns the system instruction, empty when unset.
func (r CompletionRequest) System() string { return r.system }

// Prompt returns the user prompt.
func (r CompletionRequest) Prompt() string { return r.prompt }

// MaxTokens returns the completion cap, zero when unset.
func (r CompletionRequest) MaxTokens() int { return r.maxTokens }

// JSONMode reports whether structured output was requested.
func (r CompletionRequest) JSONMode() bool { return r.jsonMode }

// Usage holds token accounting for a provider call.
type Usage struct {
	promptTokens     int
	completionTokens int
	totalTokens      int
}

// NewUsage creates a Usage.
func NewUsage(prompt, completion, total int) Usage {
	return Usage{promptTokens: prompt, completionTokens: completion, totalTokens: total}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// CompletionTokens returns the completion token count.
func (u Usage) CompletionTokens() int { return u.completionTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// CompletionResponse is the uniform completion result.
type CompletionResponse struct {
	text         string
	finishReason string
	usage        Usage
}

// NewCompletionResponse creates a CompletionResponse.
func NewCompletionResponse(text, finishReason string, usage Usage) CompletionResponse {
	return CompletionResponse{text: text, finishReason: finishReason, usage: usage}
}

// Text returns the first text segment of the completion, empty when the
// provider returned none.
func (r CompletionResponse) Text() string { return r.text }

// FinishReason returns the provider's stop reason.
func (r CompletionResponse) FinishReason() string { return r.finishReason }

// Usage returns the token accounting.
func (r CompletionResponse) Usage() Usage { return r.usage }

// ConfigError indicates a missing or invalid provider setting. Fatal:
// never retried, surfaced to the caller immediately.
type ConfigError struct {
	Provider Name
	Field    string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %s: missing required setting %s", e.Provider, e.Field)
}

// ProviderError wraps a failed provider call with its identity.
type ProviderError struct {
	provider   Name
	operation  string
	statusCode int
	message    string
	err        error
}

// NewProviderError creates a ProviderError.
func NewProviderError(provider Name, operation string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		provider:   provider,
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		err:        err,
	}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.provider, e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("%s %s failed: %s", e.provider, e.operation, e.message)
}

// Unwrap returns the wrapped error.
func (e *ProviderError) Unwrap() error { return e.err }

// StatusCode returns the HTTP status code, zero when not applicable.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Provider returns the provider identity.
func (e *ProviderError) Provider() Name { return e.provider }
