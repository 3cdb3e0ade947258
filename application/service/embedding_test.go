package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateEmbedding_UsesActiveProvider(t *testing.T) {
	active := &fakeClient{embedding: true}
	store := newFakeMemoryStore()
	e := NewEmbedding(active, nil, store, "test-model", 0, nil)

	vector, err := e.GenerateEmbedding(context.Background(), "some text")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0}, vector)
	require.Len(t, active.embedCalls(), 1)
}

func TestGenerateEmbedding_SubstitutesFallbackForChatOnlyProvider(t *testing.T) {
	active := &fakeClient{embedding: false}
	fallback := &fakeClient{embedding: true}
	store := newFakeMemoryStore()
	e := NewEmbedding(active, fallback, store, "test-model", 0, nil)

	_, err := e.GenerateEmbedding(context.Background(), "some text")
	require.NoError(t, err)
	require.Empty(t, active.embedCalls(), "chat-only provider never asked to embed")
	require.Len(t, fallback.embedCalls(), 1)
}

func TestGenerateEmbedding_NoCapableProvider(t *testing.T) {
	active := &fakeClient{embedding: false}
	e := NewEmbedding(active, nil, newFakeMemoryStore(), "test-model", 0, nil)

	_, err := e.GenerateEmbedding(context.Background(), "some text")
	require.Error(t, err)
}

func TestSaveEmbedding_UpsertReplaces(t *testing.T) {
	store := newFakeMemoryStore()
	e := NewEmbedding(&fakeClient{embedding: true}, nil, store, "test-model", 0, nil)

	require.NoError(t, e.SaveEmbedding(context.Background(), "e1", []float64{1, 2}))
	require.NoError(t, e.SaveEmbedding(context.Background(), "e1", []float64{3, 4}))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "one row per event")

	emb, ok := store.embeddingFor("e1")
	require.True(t, ok)
	require.Equal(t, []float64{3, 4}, emb.Vector())
	require.Equal(t, "test-model", emb.Model())
}

func TestBackfill_EmbedsSkipsAndContinues(t *testing.T) {
	store := newFakeMemoryStore()
	store.events["ok-1"] = testEvent("ok-1", "fixed the retry loop")
	store.events["ok-2"] = testEvent("ok-2", "shipped the importer")
	store.events["tiny"] = testEvent("tiny", "ok")
	store.events["bad"] = testEvent("bad", "this one fails to embed")

	client := &fakeClient{
		embedding: true,
		embedFn: func(texts []string) ([][]float64, error) {
			if texts[0] == "this one fails to embed" {
				return nil, errors.New("provider unavailable")
			}
			return [][]float64{{1, 0}}, nil
		},
	}
	e := NewEmbedding(client, nil, store, "test-model", 0, nil)

	task := e.Backfill(context.Background())
	require.NoError(t, task.Wait())

	require.Equal(t, 2, task.Embedded())
	require.Equal(t, 1, task.Skipped(), "too-short text skipped")
	require.Equal(t, 1, task.Failed(), "one failure does not stop the run")

	_, ok := store.embeddingFor("ok-1")
	require.True(t, ok)
	_, ok = store.embeddingFor("tiny")
	require.False(t, ok)
	_, ok = store.embeddingFor("bad")
	require.False(t, ok)
}

func TestBackfill_IdempotentWhenNothingPending(t *testing.T) {
	store := newFakeMemoryStore()
	store.events["e1"] = testEvent("e1", "already embedded")

	client := &fakeClient{embedding: true}
	e := NewEmbedding(client, nil, store, "test-model", 0, nil)

	require.NoError(t, e.SaveEmbedding(context.Background(), "e1", []float64{1, 0}))

	task := e.Backfill(context.Background())
	require.NoError(t, task.Wait())
	require.Equal(t, 0, task.Embedded())
	require.Empty(t, client.embedCalls(), "no provider call for embedded events")
}

func TestBackfill_CancelledContext(t *testing.T) {
	store := newFakeMemoryStore()
	store.events["e1"] = testEvent("e1", "pending entry")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEmbedding(&fakeClient{embedding: true}, nil, store, "test-model", 0, nil)
	task := e.Backfill(ctx)
	require.ErrorIs(t, task.Wait(), context.Canceled)
}
