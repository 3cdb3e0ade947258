package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map
// to environment variables directly (no prefix).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR (default: ~/.minddeck)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///{data_dir}/minddeck.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SearchLimit is the default retrieval result limit.
	// Env: SEARCH_LIMIT (default: 10)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"10"`

	// AskTopK is how many memories ground a question answer.
	// Env: ASK_TOP_K (default: 15)
	AskTopK int `envconfig:"ASK_TOP_K" default:"15"`

	// BackfillDelayMS is the pause between backfill embedding calls.
	// Env: BACKFILL_DELAY_MS (default: 200)
	BackfillDelayMS int `envconfig:"BACKFILL_DELAY_MS" default:"200"`

	// Provider selects the active AI provider
	// (gemini, vertex, openai, anthropic).
	// Env: AI_PROVIDER
	Provider string `envconfig:"AI_PROVIDER"`

	// Model is the generation model identifier.
	// Env: AI_MODEL
	Model string `envconfig:"AI_MODEL"`

	// EmbeddingModel is the embedding model identifier.
	// Env: AI_EMBEDDING_MODEL
	EmbeddingModel string `envconfig:"AI_EMBEDDING_MODEL"`

	// OpenAIAPIKey authenticates against the chat-completions provider.
	// Env: OPENAI_API_KEY
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// OpenAIBaseURL overrides the chat-completions endpoint.
	// Env: OPENAI_BASE_URL
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// AnthropicAPIKey authenticates against the messages provider.
	// Env: ANTHROPIC_API_KEY
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// GeminiAPIKey authenticates against the assistant-studio provider.
	// Env: GEMINI_API_KEY
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// VertexProject is the cloud project for the enterprise provider.
	// Env: VERTEX_PROJECT
	VertexProject string `envconfig:"VERTEX_PROJECT"`

	// VertexLocation is the cloud region for the enterprise provider.
	// Env: VERTEX_LOCATION
	VertexLocation string `envconfig:"VERTEX_LOCATION"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	var opts []AppConfigOption
	if e.DataDir != "" {
		opts = append(opts, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(e.LogFormat))
	}
	opts = append(opts,
		WithSearchLimit(e.SearchLimit),
		WithAskTopK(e.AskTopK),
		WithBackfillDelay(time.Duration(e.BackfillDelayMS)*time.Millisecond),
	)

	return cfg.Apply(opts...)
}

// ToSettings exposes the provider-related environment values as a
// Settings lookup. These seed the database-backed settings store: keys
// present in the store win over the environment.
func (e EnvConfig) ToSettings() Static {
	return Static{
		KeyProvider:        e.Provider,
		KeyModel:           e.Model,
		KeyEmbeddingModel:  e.EmbeddingModel,
		KeyOpenAIAPIKey:    e.OpenAIAPIKey,
		KeyOpenAIBaseURL:   e.OpenAIBaseURL,
		KeyAnthropicAPIKey: e.AnthropicAPIKey,
		KeyGeminiAPIKey:    e.GeminiAPIKey,
		KeyVertexProject:   e.VertexProject,
		KeyVertexLocation:  e.VertexLocation,
	}
}
