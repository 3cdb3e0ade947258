package persistence

import "github.com/minddeck/minddeck/internal/database"

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&EventModel{},
		&EventEmbeddingModel{},
		&SettingModel{},
	)
}
