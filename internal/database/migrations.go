package database

import (
	"fmt"

	"github.com/yukikurage/okr-tracker/internal/logger"
	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns string
}

// compositeIndexes back the hot queries: a user's objectives ordered by
// end date and a key result's history ordered by timestamp.
var compositeIndexes = []compositeIndex{
	{"objectives", "idx_objectives_user_end_date", "user_id, end_date"},
	{"objectives", "idx_objectives_user_complete", "user_id, is_complete"},
	{"key_result_updates", "idx_kr_updates_kr_timestamp", "key_result_id, timestamp"},
}

// AddIndexes adds composite indexes that struct tags cannot express.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logger.Log.Debugw("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Log.Infow("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs the post-AutoMigrate steps.
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
