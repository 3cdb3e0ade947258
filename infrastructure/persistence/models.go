// Package persistence provides GORM-backed stores for events,
// embeddings and settings.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Float64Slice stores a vector as a JSON array column, portable across
// sqlite and postgres.
type Float64Slice []float64

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}
}

// EventModel is the GORM model for the events table. Owned by the
// ingestion side; the core reads it and only writes through the
// minimal ingestion helper.
type EventModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Timestamp time.Time `gorm:"index;not null"`
	Type      string    `gorm:"size:32;index;not null"`
	Text      string    `gorm:"not null"`
	Project   string    `gorm:"size:255;index"`
	Source    string    `gorm:"size:32;index;not null"`
}

// TableName overrides the GORM default.
func (EventModel) TableName() string { return "events" }

// EventEmbeddingModel is the GORM model for the event_embeddings table.
// The unique event_id key gives saveEmbedding its upsert semantics.
type EventEmbeddingModel struct {
	EventID   string       `gorm:"primaryKey;size:64"`
	Embedding Float64Slice `gorm:"type:json;not null"`
	Model     string       `gorm:"size:128;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

// TableName overrides the GORM default.
func (EventEmbeddingModel) TableName() string { return "event_embeddings" }

// SettingModel is the GORM model for the settings key-value table,
// written by the external settings UI and read-only here.
type SettingModel struct {
	Key   string `gorm:"primaryKey;size:128"`
	Value string
}

// TableName overrides the GORM default.
func (SettingModel) TableName() string { return "settings" }
