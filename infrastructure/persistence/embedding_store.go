package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minddeck/minddeck/domain/event"
	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/internal/database"
	"gorm.io/gorm/clause"
)

// EmbeddingStore implements memory.Store over GORM. Vectors are stored
// as JSON and similarity is computed in memory by the search layer.
type EmbeddingStore struct {
	db     database.Database
	logger *slog.Logger
}

// NewEmbeddingStore creates an EmbeddingStore.
func NewEmbeddingStore(db database.Database, logger *slog.Logger) *EmbeddingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingStore{db: db, logger: logger}
}

// Upsert inserts or replaces the embedding row for an event. The write
// time is always re-stamped.
func (s *EmbeddingStore) Upsert(ctx context.Context, emb memory.Embedding) error {
	model := EventEmbeddingModel{
		EventID:   emb.EventID(),
		Embedding: Float64Slice(emb.Vector()),
		Model:     emb.Model(),
		CreatedAt: emb.CreatedAt(),
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "model", "created_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("upsert embedding for event %s: %w", emb.EventID(), err)
	}
	return nil
}

// candidateRow carries the joined event + embedding columns.
type candidateRow struct {
	ID        string
	Timestamp time.Time
	Type      string
	Text      string
	Project   string
	Source    string
	Embedding Float64Slice
	Model     string
}

func (r candidateRow) event() event.Event {
	return event.New(r.ID, r.Timestamp, event.Type(r.Type), r.Text, r.Project, event.Source(r.Source))
}

// Candidates returns every stored embedding joined with its event,
// narrowed by the filter. Rows with an empty vector are skipped.
func (s *EmbeddingStore) Candidates(ctx context.Context, f event.Filter) ([]memory.Candidate, error) {
	var rows []candidateRow

	db := s.db.Session(ctx).
		Table("event_embeddings").
		Select("events.*, event_embeddings.embedding AS embedding, event_embeddings.model AS model").
		Joins("JOIN events ON events.id = event_embeddings.event_id")
	db = applyEventFilter(db, f)

	if err := db.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	candidates := make([]memory.Candidate, 0, len(rows))
	for _, row := range rows {
		if len(row.Embedding) == 0 {
			s.logger.Warn("skipping empty embedding", "event_id", row.ID)
			continue
		}
		candidates = append(candidates, memory.NewCandidate(row.event(), row.Embedding, row.Model))
	}
	return candidates, nil
}

// EventsWithoutEmbedding returns events lacking an embedding row,
// oldest first. This is the backfill selection predicate.
func (s *EmbeddingStore) EventsWithoutEmbedding(ctx context.Context) ([]event.Event, error) {
	var models []EventModel

	err := s.db.Session(ctx).
		Table("events").
		Joins("LEFT JOIN event_embeddings ON event_embeddings.event_id = events.id").
		Where("event_embeddings.event_id IS NULL").
		Order("events.timestamp ASC").
		Scan(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find events without embedding: %w", err)
	}

	events := make([]event.Event, len(models))
	for i, m := range models {
		events[i] = toEvent(m)
	}
	return events, nil
}

// Count returns the number of stored embeddings.
func (s *EmbeddingStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Session(ctx).Model(&EventEmbeddingModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return count, nil
}

// Ensure EmbeddingStore implements the interface.
var _ memory.Store = (*EmbeddingStore)(nil)
