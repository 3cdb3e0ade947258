package memory

import (
	"context"

	"github.com/minddeck/minddeck/domain/event"
)

// Store persists embeddings keyed by event ID.
type Store interface {
	// Upsert inserts or replaces the embedding row for an event.
	Upsert(ctx context.Context, emb Embedding) error

	// Candidates returns every stored embedding joined with its event,
	// narrowed by the filter.
	Candidates(ctx context.Context, f event.Filter) ([]Candidate, error)

	// EventsWithoutEmbedding returns events that have no embedding row
	// yet, oldest first. This is the backfill selection: re-running it
	// after a partial run only yields the remainder.
	EventsWithoutEmbedding(ctx context.Context) ([]event.Event, error)

	// Count returns the number of stored embeddings.
	Count(ctx context.Context) (int64, error)
}
