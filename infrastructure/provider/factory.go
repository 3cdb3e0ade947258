package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/minddeck/minddeck/internal/config"
)

// Default retry behaviour for provider calls.
const (
	DefaultMaxRetries    = 5
	DefaultInitialDelay  = 2 * time.Second
	DefaultBackoffFactor = 2.0
)

// Config holds everything needed to construct a provider client. Only
// the fields relevant to the selected provider are consulted.
type Config struct {
	Provider       Name
	Model          string
	EmbeddingModel string
	APIKey         string
	BaseURL        string
	Project        string
	Location       string
	Timeout        time.Duration
	MaxRetries     int
	InitialDelay   time.Duration
	BackoffFactor  float64
}

func (c Config) retryPolicy() retryPolicy {
	p := retryPolicy{
		maxRetries:    c.MaxRetries,
		initialDelay:  c.InitialDelay,
		backoffFactor: c.BackoffFactor,
	}
	if p.maxRetries == 0 {
		p.maxRetries = DefaultMaxRetries
	}
	if p.initialDelay == 0 {
		p.initialDelay = DefaultInitialDelay
	}
	if p.backoffFactor == 0 {
		p.backoffFactor = DefaultBackoffFactor
	}
	return p
}

// New constructs the capability handle for the configured provider.
// Missing required settings fail immediately with a *ConfigError; no
// network call is made.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, &ConfigError{Provider: OpenAI, Field: config.KeyOpenAIAPIKey}
		}
		return NewOpenAIClient(cfg), nil

	case Anthropic:
		if cfg.APIKey == "" {
			return nil, &ConfigError{Provider: Anthropic, Field: config.KeyAnthropicAPIKey}
		}
		return NewAnthropicClient(cfg), nil

	case Gemini:
		if cfg.APIKey == "" {
			return nil, &ConfigError{Provider: Gemini, Field: config.KeyGeminiAPIKey}
		}
		return NewGeminiClient(ctx, cfg)

	case Vertex:
		if cfg.Project == "" {
			return nil, &ConfigError{Provider: Vertex, Field: config.KeyVertexProject}
		}
		if cfg.Location == "" {
			return nil, &ConfigError{Provider: Vertex, Field: config.KeyVertexLocation}
		}
		return NewVertexClient(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// FromSettings resolves the active provider configuration from the
// settings lookup. The provider selector defaults to gemini when unset.
func FromSettings(ctx context.Context, settings config.Settings) (Config, error) {
	get := func(key string) (string, error) {
		v, _, err := settings.Get(ctx, key)
		return v, err
	}

	selector, err := get(config.KeyProvider)
	if err != nil {
		return Config{}, fmt.Errorf("read provider setting: %w", err)
	}
	name := Gemini
	if selector != "" {
		parsed, ok := ParseName(selector)
		if !ok {
			return Config{}, fmt.Errorf("unknown provider %q", selector)
		}
		name = parsed
	}

	cfg := Config{Provider: name}
	if cfg.Model, err = get(config.KeyModel); err != nil {
		return Config{}, err
	}
	if cfg.EmbeddingModel, err = get(config.KeyEmbeddingModel); err != nil {
		return Config{}, err
	}

	switch name {
	case OpenAI:
		if cfg.APIKey, err = get(config.KeyOpenAIAPIKey); err != nil {
			return Config{}, err
		}
		if cfg.BaseURL, err = get(config.KeyOpenAIBaseURL); err != nil {
			return Config{}, err
		}
	case Anthropic:
		if cfg.APIKey, err = get(config.KeyAnthropicAPIKey); err != nil {
			return Config{}, err
		}
	case Gemini:
		if cfg.APIKey, err = get(config.KeyGeminiAPIKey); err != nil {
			return Config{}, err
		}
	case Vertex:
		if cfg.Project, err = get(config.KeyVertexProject); err != nil {
			return Config{}, err
		}
		if cfg.Location, err = get(config.KeyVertexLocation); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// EmbeddingFallback constructs a client for the default
// embedding-capable provider, used when the active provider cannot
// embed. Preference order: gemini, then openai, then vertex. Returns
// nil without error when no candidate is configured; the embedding
// service reports the gap on first use.
func EmbeddingFallback(ctx context.Context, settings config.Settings) (Client, error) {
	embedModel, _, err := settings.Get(ctx, config.KeyEmbeddingModel)
	if err != nil {
		return nil, err
	}

	if key, ok, err := settings.Get(ctx, config.KeyGeminiAPIKey); err != nil {
		return nil, err
	} else if ok {
		return NewGeminiClient(ctx, Config{APIKey: key, EmbeddingModel: embedModel})
	}

	if key, ok, err := settings.Get(ctx, config.KeyOpenAIAPIKey); err != nil {
		return nil, err
	} else if ok {
		return NewOpenAIClient(Config{APIKey: key, EmbeddingModel: embedModel}), nil
	}

	project, okProject, err := settings.Get(ctx, config.KeyVertexProject)
	if err != nil {
		return nil, err
	}
	location, okLocation, err := settings.Get(ctx, config.KeyVertexLocation)
	if err != nil {
		return nil, err
	}
	if okProject && okLocation {
		return NewVertexClient(ctx, Config{Project: project, Location: location, EmbeddingModel: embedModel})
	}

	return nil, nil
}
