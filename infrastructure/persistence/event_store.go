package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/minddeck/minddeck/domain/event"
	"github.com/minddeck/minddeck/internal/database"
	"gorm.io/gorm"
)

// EventStore implements event.Store over GORM.
type EventStore struct {
	db database.Database
}

// NewEventStore creates an EventStore.
func NewEventStore(db database.Database) *EventStore {
	return &EventStore{db: db}
}

// Save persists an event.
func (s *EventStore) Save(ctx context.Context, e event.Event) error {
	model := toEventModel(e)
	if err := s.db.Session(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Find returns events matching the filter, newest first.
func (s *EventStore) Find(ctx context.Context, f event.Filter) ([]event.Event, error) {
	var models []EventModel

	db := applyEventFilter(s.db.Session(ctx).Model(&EventModel{}), f)
	if err := db.Order("timestamp DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	events := make([]event.Event, len(models))
	for i, m := range models {
		events[i] = toEvent(m)
	}
	return events, nil
}

// Get returns a single event by ID.
func (s *EventStore) Get(ctx context.Context, id string) (event.Event, error) {
	var model EventModel
	err := s.db.Session(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return event.Event{}, fmt.Errorf("%w: event %s", database.ErrNotFound, id)
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return toEvent(model), nil
}

// applyEventFilter adds the filter's WHERE clauses to a query.
func applyEventFilter(db *gorm.DB, f event.Filter) *gorm.DB {
	if f.Project != "" {
		db = db.Where("events.project = ?", f.Project)
	}
	if len(f.ExcludeTypes) > 0 {
		types := make([]string, len(f.ExcludeTypes))
		for i, t := range f.ExcludeTypes {
			types[i] = string(t)
		}
		db = db.Where("events.type NOT IN ?", types)
	}
	if len(f.ExcludeSources) > 0 {
		sources := make([]string, len(f.ExcludeSources))
		for i, src := range f.ExcludeSources {
			sources[i] = string(src)
		}
		db = db.Where("events.source NOT IN ?", sources)
	}
	return db
}

func toEvent(m EventModel) event.Event {
	return event.New(m.ID, m.Timestamp, event.Type(m.Type), m.Text, m.Project, event.Source(m.Source))
}

func toEventModel(e event.Event) EventModel {
	return EventModel{
		ID:        e.ID(),
		Timestamp: e.Timestamp(),
		Type:      string(e.Type()),
		Text:      e.Text(),
		Project:   e.Project(),
		Source:    string(e.Source()),
	}
}

// Ensure EventStore implements the interface.
var _ event.Store = (*EventStore)(nil)
