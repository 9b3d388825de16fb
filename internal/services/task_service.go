package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/events"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("status must be one of pending, in_progress, completed")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
	ErrInvalidAssignee = errors.New("assigned user does not exist")
	ErrInvalidCreator  = errors.New("creating user does not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	publisher    events.Publisher
	logger       *zap.Logger
}

// NewTaskService creates a new TaskService. publisher may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *uint64
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *uint64
	CreatedBy   *uint64
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssignedTo    *uint64
	ClearAssignee bool
	UpdatedBy     *uint64
}

// AssignTaskInput assigns a task to UserID, or unassigns it when UserID is nil.
type AssignTaskInput struct {
	TaskID     uint64
	UserID     *uint64
	AssignedBy *uint64
}

// ListTasks returns tasks matching the filters, ordered by id
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its assignee
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.findTask(ctx, taskID)
}

// CreateTask validates and stores a new task together with its "created" log entry
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.CreateTask")
	defer func() { endSpan(span, err) }()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if err := s.ensureUser(ctx, input.AssignedTo, ErrInvalidAssignee); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, input.CreatedBy, ErrInvalidCreator); err != nil {
		return nil, err
	}

	task = &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     utcPtr(input.DueDate),
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
	}
	activity := &models.ActivityLog{
		Action:      models.ActionCreated,
		Description: createdDescription(task),
		UserID:      input.CreatedBy,
	}

	if err := s.taskRepo.Create(ctx, task, activity); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	span.SetAttributes(taskIDAttr(task.ID))

	s.publish(ctx, events.TypeTaskCreated, events.Payload{
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssignedTo: task.AssignedTo,
	})

	return s.findTask(ctx, task.ID)
}

// UpdateTask applies a partial update and logs one "updated" entry describing
// every field whose value actually changed. Nothing is written when no field changed.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.UpdateTask", taskIDAttr(taskID))
	defer func() { endSpan(span, err) }()

	task, err = s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if !input.ClearAssignee {
		if err := s.ensureUser(ctx, input.AssignedTo, ErrInvalidAssignee); err != nil {
			return nil, err
		}
	}

	var changes changeLog
	oldStatus := task.Status

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title != task.Title {
			changes.add("title", task.Title, title)
			task.Title = title
		}
	}
	if input.Description != nil && *input.Description != task.Description {
		changes.add("description", formatText(task.Description), formatText(*input.Description))
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != task.Status {
		changes.add("status", string(task.Status), string(*input.Status))
		task.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		changes.add("priority", string(task.Priority), string(*input.Priority))
		task.Priority = *input.Priority
	}
	if input.ClearDueDate || input.DueDate != nil {
		dueDate := utcPtr(input.DueDate)
		if input.ClearDueDate {
			dueDate = nil
		}
		if !sameTime(task.DueDate, dueDate) {
			changes.add("due_date", formatTime(task.DueDate), formatTime(dueDate))
			task.DueDate = dueDate
		}
	}
	if input.ClearAssignee || input.AssignedTo != nil {
		assignedTo := input.AssignedTo
		if input.ClearAssignee {
			assignedTo = nil
		}
		if !sameID(task.AssignedTo, assignedTo) {
			changes.add("assigned_to", s.assigneeName(ctx, task.AssignedTo), s.assigneeName(ctx, assignedTo))
			task.AssignedTo = assignedTo
			task.Assignee = nil
		}
	}

	if len(changes) == 0 {
		return task, nil
	}

	activity := &models.ActivityLog{
		Action:      models.ActionUpdated,
		Description: changes.String(),
		UserID:      input.UpdatedBy,
	}
	if err := s.taskRepo.Update(ctx, task, activity); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.Status != oldStatus {
		s.publish(ctx, events.TypeTaskStatusChanged, events.Payload{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			OldStatus: string(oldStatus),
			NewStatus: string(task.Status),
		})
	}

	return s.findTask(ctx, task.ID)
}

// DeleteTask deletes a task and its activity log
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) (err error) {
	ctx, span := startSpan(ctx, "TaskService.DeleteTask", taskIDAttr(taskID))
	defer func() { endSpan(span, err) }()

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignTask sets or clears a task's assignee and logs the change
func (s *TaskService) AssignTask(ctx context.Context, input AssignTaskInput) (task *models.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.AssignTask", taskIDAttr(input.TaskID))
	defer func() { endSpan(span, err) }()

	task, err = s.findTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	var oldName string
	if task.Assignee != nil {
		oldName = task.Assignee.Username
	}

	var assignee *models.User
	if input.UserID != nil {
		assignee, err = s.userRepo.FindByID(ctx, *input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	var newName string
	if assignee != nil {
		newName = assignee.Username
	}
	action, description := assignmentDescription(oldName, newName)

	task.AssignedTo = input.UserID
	task.Assignee = assignee
	activity := &models.ActivityLog{
		Action:      action,
		Description: description,
		UserID:      input.AssignedBy,
	}
	if err := s.taskRepo.Update(ctx, task, activity); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	if assignee != nil {
		s.publish(ctx, events.TypeTaskAssigned, events.Payload{
			TaskID:     task.ID,
			TaskTitle:  task.Title,
			AssignedTo: &assignee.ID,
			UserEmail:  assignee.Email,
		})
	}

	return s.findTask(ctx, task.ID)
}

// ListTaskActivity returns a task's activity log, newest first
func (s *TaskService) ListTaskActivity(ctx context.Context, taskID uint64) ([]models.ActivityLog, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}

// ListTasksByUser returns the tasks assigned to a user
func (s *TaskService) ListTasksByUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.ListTasks(ctx, ListTasksInput{AssignedTo: &userID})
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureUser returns notFound when id is set and names no user
func (s *TaskService) ensureUser(ctx context.Context, id *uint64, notFound error) error {
	if id == nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

// assigneeName renders an assignee for the change log: the username when
// the user exists, "user {id}" when it does not.
func (s *TaskService) assigneeName(ctx context.Context, id *uint64) string {
	if id == nil {
		return notSet
	}
	user, err := s.userRepo.FindByID(ctx, *id)
	if err != nil {
		return fmt.Sprintf("user %d", *id)
	}
	return user.Username
}

// publish sends an event without failing the caller; lost events are acceptable.
func (s *TaskService) publish(ctx context.Context, eventType string, payload events.Payload) {
	if s.publisher == nil {
		return
	}

	evt := events.NewEvent(eventType, payload)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("event_id", evt.ID),
			zap.Uint64("task_id", payload.TaskID),
			zap.Error(err),
		)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
