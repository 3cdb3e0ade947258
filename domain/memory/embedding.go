// Package memory defines embedding records and the vector store contract.
package memory

import (
	"time"

	"github.com/minddeck/minddeck/domain/event"
)

// Embedding is the stored vector for a single event. At most one row
// exists per event; re-embedding replaces vector, model and timestamp.
type Embedding struct {
	eventID   string
	vector    []float64
	model     string
	createdAt time.Time
}

// NewEmbedding creates an Embedding. The vector is copied.
func NewEmbedding(eventID string, vector []float64, model string, createdAt time.Time) Embedding {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Embedding{
		eventID:   eventID,
		vector:    vec,
		model:     model,
		createdAt: createdAt,
	}
}

// EventID returns the owning event's identifier.
func (e Embedding) EventID() string { return e.eventID }

// Vector returns a copy of the embedding vector.
func (e Embedding) Vector() []float64 {
	vec := make([]float64, len(e.vector))
	copy(vec, e.vector)
	return vec
}

// Model returns the embedding model identifier.
func (e Embedding) Model() string { return e.model }

// CreatedAt returns when the embedding was written.
func (e Embedding) CreatedAt() time.Time { return e.createdAt }

// Candidate is an event joined with its stored vector, the unit the
// ranking layer scores.
type Candidate struct {
	event  event.Event
	vector []float64
	model  string
}

// NewCandidate creates a Candidate. The vector is copied.
func NewCandidate(ev event.Event, vector []float64, model string) Candidate {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Candidate{event: ev, vector: vec, model: model}
}

// Event returns the candidate's event.
func (c Candidate) Event() event.Event { return c.event }

// Vector returns the candidate's stored vector. Not copied: candidates
// are short-lived scoring inputs, never handed out of the core.
func (c Candidate) Vector() []float64 { return c.vector }

// Model returns the embedding model that produced the vector.
func (c Candidate) Model() string { return c.model }
