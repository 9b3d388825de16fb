package models

import "time"

type ActivityAction string

const (
	ActionCreated  ActivityAction = "created"
	ActionUpdated  ActivityAction = "updated"
	ActionAssigned ActivityAction = "assigned"
)

// ActivityLog is an append-only record of a task lifecycle event.
// Rows are removed together with their task.
type ActivityLog struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	Action      ActivityAction `gorm:"type:varchar(100);not null" json:"action"`
	Description string         `gorm:"type:text" json:"description"`
	UserID      *uint64        `json:"user_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}
