// Package brain defines the shapes returned by retrieval and grounded
// question answering.
package brain

import "github.com/minddeck/minddeck/domain/event"

// ScoredEvent is an event ranked by semantic similarity to a query.
// The underlying vector is deliberately absent: callers never need it.
type ScoredEvent struct {
	event      event.Event
	similarity float64
}

// NewScoredEvent creates a ScoredEvent.
func NewScoredEvent(ev event.Event, similarity float64) ScoredEvent {
	return ScoredEvent{event: ev, similarity: similarity}
}

// Event returns the ranked event.
func (s ScoredEvent) Event() event.Event { return s.event }

// Similarity returns the best-of cosine similarity score.
func (s ScoredEvent) Similarity() float64 { return s.similarity }
