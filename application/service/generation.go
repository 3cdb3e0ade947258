package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/minddeck/minddeck/infrastructure/provider"
)

// jsonSystemInstruction constrains completions to machine-readable JSON.
const jsonSystemInstruction = "You are a precise assistant. Respond with strict JSON only: no prose, no Markdown, no commentary."

// jsonRawSuffix reinforces the contract for providers without a native
// structured output mode.
const jsonRawSuffix = "\n\nReturn only raw JSON. Do not wrap the response in Markdown code fences."

// Generation provides uniform text and JSON generation over any
// provider client.
type Generation struct {
	client provider.Client
	logger *slog.Logger
}

// NewGeneration creates a Generation service.
func NewGeneration(client provider.Client, logger *slog.Logger) *Generation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generation{client: client, logger: logger}
}

// Provider returns the underlying provider selector.
func (g *Generation) Provider() provider.Name { return g.client.Name() }

// GenerateText performs a single-turn completion. An optional system
// instruction may be passed as the second argument. An empty completion
// is returned as "" and is not an error.
func (g *Generation) GenerateText(ctx context.Context, prompt string, system ...string) (string, error) {
	opts := []provider.CompletionOption{}
	if len(system) > 0 && system[0] != "" {
		opts = append(opts, provider.WithSystem(system[0]))
	}

	resp, err := g.client.Complete(ctx, provider.NewCompletionRequest(prompt, opts...))
	if err != nil {
		g.logger.Error("text generation failed", "provider", g.client.Name(), "error", err)
		return "", &GenerationError{Provider: g.client.Name(), Err: err}
	}
	return resp.Text(), nil
}

// GenerateJSON performs a completion constrained to JSON and returns
// the validated raw document. Providers with a native structured output
// mode use it; for the rest the contract is prompt-enforced and any
// Markdown code fences are stripped before parsing. A parse failure
// surfaces as a *GenerationError carrying the raw completion.
func (g *Generation) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	opts := []provider.CompletionOption{provider.WithSystem(jsonSystemInstruction)}
	if g.client.SupportsNativeJSON() {
		opts = append(opts, provider.WithJSONMode())
	} else {
		prompt += jsonRawSuffix
	}

	resp, err := g.client.Complete(ctx, provider.NewCompletionRequest(prompt, opts...))
	if err != nil {
		g.logger.Error("json generation failed", "provider", g.client.Name(), "error", err)
		return nil, &GenerationError{Provider: g.client.Name(), Err: err}
	}

	raw := StripFences(resp.Text())
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		g.logger.Error("json generation returned unparseable output",
			"provider", g.client.Name(), "error", err)
		return nil, &GenerationError{Provider: g.client.Name(), Raw: resp.Text(), Err: err}
	}
	return json.RawMessage(raw), nil
}

// StripFences removes a wrapping Markdown code fence, with or without a
// language tag, from a completion. Content without fences is returned
// trimmed but otherwise untouched.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag like "json" on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || isFenceLanguageTag(firstLine) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// isFenceLanguageTag reports whether s looks like a code fence language
// tag rather than content.
func isFenceLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(s) <= 16
}
