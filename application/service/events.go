package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minddeck/minddeck/domain/event"
)

// Events records new entries into the memory log and embeds them
// eagerly so they become searchable right away.
type Events struct {
	store     event.Store
	embedding *Embedding
	logger    *slog.Logger
}

// NewEvents creates an Events service.
func NewEvents(store event.Store, embedding *Embedding, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{store: store, embedding: embedding, logger: logger}
}

// Add persists a new event and embeds it. Embedding is best-effort; a
// failed embedding leaves the event for the next backfill run.
func (s *Events) Add(ctx context.Context, text string, eventType event.Type, project string, source event.Source) (event.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return event.Event{}, fmt.Errorf("event text must not be empty")
	}
	if eventType == "" {
		eventType = event.TypeNote
	}
	if source == "" {
		source = event.SourceUser
	}

	ev := event.New(uuid.NewString(), time.Now().UTC(), eventType, text, project, source)
	if err := s.store.Save(ctx, ev); err != nil {
		return event.Event{}, fmt.Errorf("add event: %w", err)
	}

	if len([]rune(text)) >= minEmbedTextLength {
		vector, err := s.embedding.GenerateEmbedding(ctx, text)
		if err != nil {
			s.logger.Warn("eager embedding failed, deferring to backfill",
				"event_id", ev.ID(), "error", err)
			return ev, nil
		}
		if err := s.embedding.SaveEmbedding(ctx, ev.ID(), vector); err != nil {
			s.logger.Warn("eager embedding save failed, deferring to backfill",
				"event_id", ev.ID(), "error", err)
		}
	}
	return ev, nil
}

// List returns stored events matching the filter, newest first.
func (s *Events) List(ctx context.Context, f event.Filter) ([]event.Event, error) {
	return s.store.Find(ctx, f)
}
