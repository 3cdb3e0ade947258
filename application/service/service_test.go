package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minddeck/minddeck/domain/event"
	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/infrastructure/provider"
)

// fakeClient is a scriptable provider.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	name      provider.Name
	embedding bool
	native    bool

	completeFn func(provider.CompletionRequest) (provider.CompletionResponse, error)
	embedFn    func([]string) ([][]float64, error)

	completes []provider.CompletionRequest
	embeds    [][]string
}

func (c *fakeClient) Name() provider.Name {
	if c.name == "" {
		return provider.OpenAI
	}
	return c.name
}

func (c *fakeClient) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	c.mu.Lock()
	c.completes = append(c.completes, req)
	c.mu.Unlock()

	if c.completeFn == nil {
		return provider.NewCompletionResponse("", "stop", provider.Usage{}), nil
	}
	return c.completeFn(req)
}

func (c *fakeClient) Embed(_ context.Context, texts []string) ([][]float64, error) {
	c.mu.Lock()
	c.embeds = append(c.embeds, texts)
	c.mu.Unlock()

	if c.embedFn == nil {
		vectors := make([][]float64, len(texts))
		for i := range texts {
			vectors[i] = []float64{1, 0, 0}
		}
		return vectors, nil
	}
	return c.embedFn(texts)
}

func (c *fakeClient) SupportsTextGeneration() bool { return true }
func (c *fakeClient) SupportsEmbedding() bool      { return c.embedding }
func (c *fakeClient) SupportsNativeJSON() bool     { return c.native }
func (c *fakeClient) Close() error                 { return nil }

func (c *fakeClient) completeCalls() []provider.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]provider.CompletionRequest{}, c.completes...)
}

func (c *fakeClient) embedCalls() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string{}, c.embeds...)
}

// fakeMemoryStore is an in-memory memory.Store.
type fakeMemoryStore struct {
	mu sync.Mutex

	rows       map[string]memory.Embedding
	events     map[string]event.Event
	candidates []memory.Candidate

	candidatesErr error
	lastFilter    event.Filter
}

func newFakeMemoryStore() *fakeMemoryStore {
	return &fakeMemoryStore{
		rows:   map[string]memory.Embedding{},
		events: map[string]event.Event{},
	}
}

func (s *fakeMemoryStore) Upsert(_ context.Context, emb memory.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[emb.EventID()] = emb
	return nil
}

func (s *fakeMemoryStore) Candidates(_ context.Context, f event.Filter) ([]memory.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = f
	if s.candidatesErr != nil {
		return nil, s.candidatesErr
	}
	return append([]memory.Candidate{}, s.candidates...), nil
}

func (s *fakeMemoryStore) EventsWithoutEmbedding(_ context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []event.Event
	for id, ev := range s.events {
		if _, ok := s.rows[id]; !ok {
			pending = append(pending, ev)
		}
	}
	return pending, nil
}

func (s *fakeMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *fakeMemoryStore) embeddingFor(id string) (memory.Embedding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emb, ok := s.rows[id]
	return emb, ok
}

// fakeEventStore is an in-memory event.Store.
type fakeEventStore struct {
	mu     sync.Mutex
	events []event.Event

	saveErr error
}

func (s *fakeEventStore) Save(_ context.Context, e event.Event) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *fakeEventStore) Find(_ context.Context, _ event.Filter) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Event{}, s.events...), nil
}

func (s *fakeEventStore) Get(_ context.Context, id string) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID() == id {
			return e, nil
		}
	}
	return event.Event{}, fmt.Errorf("event %s not found", id)
}

func testEvent(id, text string) event.Event {
	return event.New(id, time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
		event.TypeNote, text, "minddeck", event.SourceUser)
}
