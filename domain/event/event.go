// Package event defines the activity log records that the rest of the
// system retrieves over. Events are written by the ingestion side of the
// application and are read-only here.
package event

import "time"

// Type categorizes an event.
type Type string

// Event types.
const (
	TypeNote       Type = "note"
	TypeIdea       Type = "idea"
	TypeTaskUpdate Type = "task_update"
	TypeSummary    Type = "summary"
	TypeGitCommit  Type = "git_commit"
)

// Source identifies what wrote an event.
type Source string

// Event sources.
const (
	SourceUser      Source = "user"
	SourceAI        Source = "ai"
	SourceGit       Source = "git"
	SourceScheduler Source = "scheduler"
)

// Event is a single activity log record. Immutable once written.
type Event struct {
	id        string
	timestamp time.Time
	eventType Type
	text      string
	project   string
	source    Source
}

// New creates an Event.
func New(id string, timestamp time.Time, eventType Type, text, project string, source Source) Event {
	return Event{
		id:        id,
		timestamp: timestamp,
		eventType: eventType,
		text:      text,
		project:   project,
		source:    source,
	}
}

// ID returns the opaque event identifier.
func (e Event) ID() string { return e.id }

// Timestamp returns when the event occurred.
func (e Event) Timestamp() time.Time { return e.timestamp }

// Type returns the event category.
func (e Event) Type() Type { return e.eventType }

// Text returns the event body.
func (e Event) Text() string { return e.text }

// Project returns the project the event belongs to.
func (e Event) Project() string { return e.project }

// Source returns what wrote the event.
func (e Event) Source() Source { return e.source }
