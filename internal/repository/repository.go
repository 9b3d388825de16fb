package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task and its "created" activity entry in one transaction.
	// The activity's TaskID is filled in from the new task.
	Create(ctx context.Context, task *models.Task, activity *models.ActivityLog) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update saves a task and, when activity is non-nil, its activity entry in one transaction.
	Update(ctx context.Context, task *models.Task, activity *models.ActivityLog) error

	// Delete removes a task together with its activity log
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status        *models.TaskStatus
	ExcludeStatus *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *uint64
	DueDateFrom   *time.Time
	DueDateTo     *time.Time // inclusive
	SortByDueDate bool
	Page          int
	PageSize      int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user after clearing every task and activity reference to it.
	Delete(ctx context.Context, id uint64) error
}

// ActivityRepository reads the activity log. Entries are written by
// TaskRepository together with the task change they describe.
type ActivityRepository interface {
	// ListRecent returns at most limit entries, newest first
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)

	// ListByTask returns a task's entries, newest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.ActivityLog, error)
}
