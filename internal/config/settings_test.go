package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatic_EmptyValueIsAbsent(t *testing.T) {
	s := Static{KeyProvider: "openai", KeyModel: ""}
	ctx := context.Background()

	v, ok, err := s.Get(ctx, KeyProvider)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "openai", v)

	_, ok, err = s.Get(ctx, KeyModel)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = s.Get(ctx, KeyGeminiAPIKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLayered_PrimaryWins(t *testing.T) {
	primary := Static{KeyProvider: "anthropic"}
	secondary := Static{KeyProvider: "openai", KeyOpenAIAPIKey: "from-env"}
	layered := Layered(primary, secondary)
	ctx := context.Background()

	v, ok, err := layered.Get(ctx, KeyProvider)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "anthropic", v, "primary overrides secondary")

	v, ok, err = layered.Get(ctx, KeyOpenAIAPIKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "from-env", v, "secondary fills the gaps")
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	require.Equal(t, DefaultSearchLimit, cfg.SearchLimit())
	require.Equal(t, DefaultAskTopK, cfg.AskTopK())
	require.Equal(t, DefaultBackfillDelay, cfg.BackfillDelay())
	require.Contains(t, cfg.DBURL(), "sqlite:///")
}

func TestAppConfig_Apply(t *testing.T) {
	cfg := NewAppConfig().Apply(
		WithDBURL("postgres://localhost/minddeck"),
		WithSearchLimit(25),
		WithAskTopK(0), // ignored
	)

	require.Equal(t, "postgres://localhost/minddeck", cfg.DBURL())
	require.Equal(t, 25, cfg.SearchLimit())
	require.Equal(t, DefaultAskTopK, cfg.AskTopK())
}
