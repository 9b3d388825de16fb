package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// ActivityDTO represents an activity log entry in API responses
type ActivityDTO struct {
	ID          uint64                `json:"id"`
	TaskID      uint64                `json:"task_id"`
	Action      models.ActivityAction `json:"action"`
	Description string                `json:"description"`
	UserID      *uint64               `json:"user_id"`
	CreatedAt   time.Time             `json:"created_at"`
}

func ToActivityDTOs(activities []models.ActivityLog) []ActivityDTO {
	items := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		items[i] = ActivityDTO{
			ID:          a.ID,
			TaskID:      a.TaskID,
			Action:      a.Action,
			Description: a.Description,
			UserID:      a.UserID,
			CreatedAt:   a.CreatedAt,
		}
	}
	return items
}
