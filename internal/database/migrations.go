package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes gorm tags do not express.
// It goes through the migrator so the same code runs on every driver.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns []string
	}{
		// Upcoming-deadline query filters on both columns
		{&models.Task{}, "tasks", "idx_tasks_status_due_date", []string{"status", "due_date"}},
		{&models.Task{}, "tasks", "idx_tasks_assigned_to", []string{"assigned_to"}},

		// Recent activity ordering
		{&models.ActivityLog{}, "activity_logs", "idx_activity_logs_created_at_id", []string{"created_at", "id"}},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
