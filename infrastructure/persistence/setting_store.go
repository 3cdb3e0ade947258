package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/minddeck/minddeck/internal/config"
	"github.com/minddeck/minddeck/internal/database"
	"gorm.io/gorm"
)

// SettingStore implements config.Settings over the settings key-value
// table. The table is written by the external settings UI; the core
// only reads it.
type SettingStore struct {
	db database.Database
}

// NewSettingStore creates a SettingStore.
func NewSettingStore(db database.Database) *SettingStore {
	return &SettingStore{db: db}
}

// Get returns the value for key, reporting absence without error.
func (s *SettingStore) Get(ctx context.Context, key string) (string, bool, error) {
	var model SettingModel
	err := s.db.Session(ctx).First(&model, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	if model.Value == "" {
		return "", false, nil
	}
	return model.Value, true, nil
}

// Ensure SettingStore implements the interface.
var _ config.Settings = (*SettingStore)(nil)
