package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestParseFormat(t *testing.T) {
	require.Equal(t, FormatJSON, ParseFormat("json"))
	require.Equal(t, FormatJSON, ParseFormat("JSON"))
	require.Equal(t, FormatPretty, ParseFormat("pretty"))
	require.Equal(t, FormatPretty, ParseFormat(""))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, "WARN")

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible")
}

func TestNew_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatPretty, "INFO")

	logger.Info("starting up", "port", 8080)

	out := buf.String()
	require.Contains(t, out, "INF")
	require.Contains(t, out, "starting up")
	require.Contains(t, out, "port=")
	require.Contains(t, out, "8080")
}

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, CorrelationID(ctx))

	ctx = WithCorrelationID(ctx, "abc-123")
	require.Equal(t, "abc-123", CorrelationID(ctx))

	var buf bytes.Buffer
	logger := FromContext(ctx, New(&buf, FormatJSON, "INFO"))
	logger.Info("hello")
	require.Contains(t, buf.String(), "abc-123")
}
