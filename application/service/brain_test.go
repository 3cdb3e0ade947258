package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/infrastructure/provider"
)

// brainFixture wires a Brain over scriptable fakes. answerJSON is what
// the model returns for the grounded answer call; expansion calls get a
// fixed variation list.
func brainFixture(store *fakeMemoryStore, answerJSON string) (*Brain, *fakeClient) {
	client := &fakeClient{
		embedding: true,
		native:    true,
		completeFn: func(req provider.CompletionRequest) (provider.CompletionResponse, error) {
			if req.JSONMode() {
				return provider.NewCompletionResponse(answerJSON, "stop", provider.Usage{}), nil
			}
			return provider.NewCompletionResponse("a variation", "stop", provider.Usage{}), nil
		},
	}

	generation := NewGeneration(client, nil)
	embedding := NewEmbedding(client, nil, store, "test-model", 0, nil)
	retrieval := NewRetrieval(generation, embedding, store, 10, nil)
	return NewBrain(generation, retrieval, 15, nil), client
}

func answerCalls(client *fakeClient) []provider.CompletionRequest {
	var calls []provider.CompletionRequest
	for _, req := range client.completeCalls() {
		if req.JSONMode() {
			calls = append(calls, req)
		}
	}
	return calls
}

func TestAsk_GroundedAnswer(t *testing.T) {
	store := newFakeMemoryStore()
	store.candidates = []memory.Candidate{
		memory.NewCandidate(testEvent("e1", "fixed the retry loop"), []float64{1, 0, 0}, "test-model"),
	}

	answer := `{"user_response":"You fixed the retry loop.","related_memories":[{"id":"e1","excerpt":"fixed the retry loop","date":"2026-01-02","type":"note"}]}`
	b, client := brainFixture(store, answer)

	got, err := b.Ask(context.Background(), "what did I fix?")
	require.NoError(t, err)
	require.False(t, got.Degraded())
	require.Equal(t, "You fixed the retry loop.", got.UserResponse())

	memories := got.RelatedMemories()
	require.Len(t, memories, 1)
	require.Equal(t, "e1", memories[0].ID())
	require.Equal(t, "fixed the retry loop", memories[0].Excerpt())
	require.Equal(t, "2026-01-02", memories[0].Date())
	require.Equal(t, "note", memories[0].Kind())

	calls := answerCalls(client)
	require.Len(t, calls, 1)
	require.Contains(t, calls[0].Prompt(), "fixed the retry loop", "context entries included")
	require.Contains(t, calls[0].Prompt(), "what did I fix?")
}

func TestAsk_EmptyRetrievalSkipsGeneration(t *testing.T) {
	store := newFakeMemoryStore()
	b, client := brainFixture(store, `{"user_response":"never used"}`)

	got, err := b.Ask(context.Background(), "what did I fix?")
	require.NoError(t, err)
	require.True(t, got.Degraded())
	require.NotEmpty(t, got.UserResponse())
	require.Empty(t, got.RelatedMemories())

	require.Empty(t, answerCalls(client), "no answer generation without grounding")
}

func TestAsk_UnparseableAnswerDegrades(t *testing.T) {
	store := newFakeMemoryStore()
	store.candidates = []memory.Candidate{
		memory.NewCandidate(testEvent("e1", "fixed the retry loop"), []float64{1, 0, 0}, "test-model"),
	}

	b, _ := brainFixture(store, "I am not JSON, sorry")

	got, err := b.Ask(context.Background(), "what did I fix?")
	require.NoError(t, err, "degradation never errors towards the caller")
	require.True(t, got.Degraded())
	require.Empty(t, got.RelatedMemories())
}

func TestAsk_MissingUserResponseDegrades(t *testing.T) {
	store := newFakeMemoryStore()
	store.candidates = []memory.Candidate{
		memory.NewCandidate(testEvent("e1", "fixed the retry loop"), []float64{1, 0, 0}, "test-model"),
	}

	b, _ := brainFixture(store, `{"related_memories":[]}`)

	got, err := b.Ask(context.Background(), "what did I fix?")
	require.NoError(t, err)
	require.True(t, got.Degraded())
}

func TestAsk_ProjectNarrowsRetrieval(t *testing.T) {
	store := newFakeMemoryStore()
	b, _ := brainFixture(store, `{"user_response":"x"}`)

	_, err := b.Ask(context.Background(), "anything", WithAskProject("minddeck"))
	require.NoError(t, err)
	require.Equal(t, "minddeck", store.lastFilter.Project)
}
