package config

import "context"

// Setting keys written by the external settings UI and read by the
// retrieval core.
const (
	KeyProvider        = "ai.provider"
	KeyModel           = "ai.model"
	KeyEmbeddingModel  = "ai.embedding_model"
	KeyOpenAIAPIKey    = "ai.openai.api_key"
	KeyOpenAIBaseURL   = "ai.openai.base_url"
	KeyAnthropicAPIKey = "ai.anthropic.api_key"
	KeyGeminiAPIKey    = "ai.gemini.api_key"
	KeyVertexProject   = "ai.vertex.project"
	KeyVertexLocation  = "ai.vertex.location"
)

// Settings is a read-only key-value lookup for provider selection,
// credentials and model identifiers. The second return value reports
// whether the key is present.
type Settings interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Static is a fixed in-memory Settings implementation, used for
// environment-seeded defaults and test fixtures.
type Static map[string]string

// Get implements Settings.
func (s Static) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	if v == "" {
		return "", false, nil
	}
	return v, ok, nil
}

// layered consults primary first and falls back to secondary for keys
// the primary does not hold.
type layered struct {
	primary   Settings
	secondary Settings
}

// Layered returns a Settings that reads primary first, then secondary.
func Layered(primary, secondary Settings) Settings {
	return layered{primary: primary, secondary: secondary}
}

// Get implements Settings.
func (l layered) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := l.primary.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if ok {
		return v, true, nil
	}
	return l.secondary.Get(ctx, key)
}
