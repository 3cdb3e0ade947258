package event

import "context"

// Filter narrows a Find query. Zero values mean "no constraint".
type Filter struct {
	Project        string
	ExcludeTypes   []Type
	ExcludeSources []Source
}

// Store provides access to stored events.
type Store interface {
	// Save persists an event. Events are written once by the ingestion
	// side; the retrieval core only reads them.
	Save(ctx context.Context, e Event) error

	// Find returns events matching the filter, newest first.
	Find(ctx context.Context, f Filter) ([]Event, error)

	// Get returns a single event by ID.
	Get(ctx context.Context, id string) (Event, error)
}
