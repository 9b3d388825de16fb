package repository

import (
	"context"

	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	activities := []models.ActivityLog{}
	if err := r.db.WithContext(ctx).
		Scopes(database.NewestFirst("activity_logs")).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *GormActivityRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.ActivityLog, error) {
	activities := []models.ActivityLog{}
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Scopes(database.NewestFirst("activity_logs")).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
