package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRetryConfig(cfg Config) Config {
	cfg.MaxRetries = 2
	cfg.InitialDelay = time.Millisecond
	cfg.BackoffFactor = 1.0
	return cfg
}

// fakeChatServer mimics the chat completions endpoint, returning content
// and counting requests.
func fakeChatServer(t *testing.T, content string, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     10,
				"completion_tokens": 5,
				"total_tokens":      15,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

// fakeEmbeddingServer mimics the embeddings endpoint with deterministic
// 3-dimensional vectors.
func fakeEmbeddingServer(t *testing.T, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)

		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(body.Input))
		for i := range body.Input {
			data[i] = map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{0.1, 0.2, 0.3},
			}
		}
		resp := map[string]any{
			"object": "list",
			"data":   data,
			"model":  body.Model,
			"usage":  map[string]int{"prompt_tokens": 4, "total_tokens": 4},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIClient_Complete(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, "hello there", &counter)
	defer srv.Close()

	client := NewOpenAIClient(testRetryConfig(Config{APIKey: "test-key", BaseURL: srv.URL}))

	resp, err := client.Complete(context.Background(),
		NewCompletionRequest("say hello", WithSystem("be brief")))
	require.NoError(t, err)
	require.Equal(t, "hello there", resp.Text())
	require.Equal(t, "stop", resp.FinishReason())
	require.Equal(t, 15, resp.Usage().TotalTokens())
	require.Equal(t, int64(1), counter.Load())
}

func TestOpenAIClient_EmbedEmpty(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	client := NewOpenAIClient(testRetryConfig(Config{APIKey: "test-key", BaseURL: srv.URL}))

	vectors, err := client.Embed(context.Background(), []string{})
	require.NoError(t, err)
	require.Empty(t, vectors)
	require.Equal(t, int64(0), counter.Load(), "no HTTP request for empty input")
}

func TestOpenAIClient_EmbedBatch(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	client := NewOpenAIClient(testRetryConfig(Config{APIKey: "test-key", BaseURL: srv.URL}))

	vectors, err := client.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, []float64{0.1, 0.2, 0.3}, vectors[0])
	require.Equal(t, int64(1), counter.Load(), "batch embeds in one call")
}

func TestOpenAIClient_RetriesServerErrors(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if counter.Add(1) < 3 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop",
					"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewOpenAIClient(testRetryConfig(Config{APIKey: "test-key", BaseURL: srv.URL}))

	resp, err := client.Complete(context.Background(), NewCompletionRequest("hi"))
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text())
	require.Equal(t, int64(3), counter.Load())
}

func TestOpenAIClient_DoesNotRetryClientErrors(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewOpenAIClient(testRetryConfig(Config{APIKey: "bad-key", BaseURL: srv.URL}))

	_, err := client.Complete(context.Background(), NewCompletionRequest("hi"))
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, OpenAI, provErr.Provider())
	require.Equal(t, http.StatusUnauthorized, provErr.StatusCode())
	require.Equal(t, int64(1), counter.Load(), "401 is not retried")
}
