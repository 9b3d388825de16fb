package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Status             models.TaskStatus   `json:"status"`
	Priority           models.TaskPriority `json:"priority"`
	DueDate            *time.Time          `json:"due_date"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	AssignedTo         *uint64             `json:"assigned_to"`
	AssignedToUsername *string             `json:"assigned_to_username"`
	CreatedBy          *uint64             `json:"created_by"`
}

// ToTaskDTO converts a Task model to TaskDTO.
// assigned_to_username is filled only when the assignee was preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
	}

	if task.Assignee != nil {
		username := task.Assignee.Username
		dto.AssignedToUsername = &username
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
